package delivery

import (
	"errors"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/delivery/model"
	"merchant-dashboard/session"
)

// SessionCookieName is the gateway session cookie. It carries a signed
// session ID, never the bearer token itself.
const SessionCookieName = "dash_session"

// A struct to hold data for the login template.
type loginPageData struct {
	Email      string
	Error      string
	Registered bool
}

// renderLoginForm is a helper to render the login UI.
func (h *HTTPEndpoint) renderLoginForm(w http.ResponseWriter, data loginPageData) {
	if err := loginTemplate.ExecuteTemplate(w, "login.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to execute login template")
		http.Error(w, "Failed to render the page", http.StatusInternalServerError)
	}
}

// loginHandler handles the GET request for the login page.
func (h *HTTPEndpoint) loginHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLoginForm(w, loginPageData{
		Registered: r.URL.Query().Get("registered") == "1",
	})
}

// loginSubmitHandler handles the POST request from the login form.
// Validation failures re-render the form without touching the network.
func (h *HTTPEndpoint) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := model.LoginForm{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}
	if err := form.Validate(); err != nil {
		h.renderLoginForm(w, loginPageData{Email: form.Email, Error: err.Error()})
		return
	}

	resp, err := h.app.Backend().Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.renderLoginForm(w, loginPageData{Email: form.Email, Error: loginErrorMessage(err)})
		return
	}
	if resp.Token == "" {
		h.renderLoginForm(w, loginPageData{Email: form.Email, Error: "Login failed, please try again."})
		return
	}

	sess, cookieValue, err := h.app.BeginSession(r.Context(), resp.Token, session.Profile(resp.ClientData))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to begin session")
		h.renderLoginForm(w, loginPageData{Email: form.Email, Error: "Could not start a session, please try again."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info().Str("session", sess.ID()).Msg("user logged in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	// The backend answers bad credentials with 401, which the request
	// wrapper reports as an expired session.
	if errors.Is(err, backend.ErrSessionExpired) {
		return "Invalid email or password."
	}
	if errors.Is(err, backend.ErrUnreachable) {
		return "Network error — please try again."
	}
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	return "Login failed, please try again."
}
