package delivery

import (
	"net/http"
)

// logoutHandler destroys the session, which also cancels its polling tasks,
// and clears the cookie.
func (h *HTTPEndpoint) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.app.SessionFromContext(r.Context()); ok {
		h.app.EndSession(r.Context(), sess.ID())
		h.log.Info().Str("session", sess.ID()).Msg("user logged out")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
