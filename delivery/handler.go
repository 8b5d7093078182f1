package delivery

import (
	"net/http"

	"github.com/rs/zerolog"
)

// HTTPEndpoint holds the delivery layer's dependencies: the application core,
// the flash-banner store, and the notification hub.
type HTTPEndpoint struct {
	app   AppDependencies
	flash *FlashStore
	hub   *Hub
	log   zerolog.Logger
}

type errorPageData struct {
	Error struct {
		ID     string
		Reason string
	}
}

// homeHandler routes the bare origin to whichever view the session warrants.
func (h *HTTPEndpoint) homeHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(SessionCookieName); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// errorHandler renders the generic error page.
func (h *HTTPEndpoint) errorHandler(w http.ResponseWriter, r *http.Request) {
	data := errorPageData{}
	data.Error.ID = r.URL.Query().Get("id")
	data.Error.Reason = r.URL.Query().Get("reason")
	if data.Error.Reason == "" {
		data.Error.Reason = "An unexpected error occurred."
	}

	w.WriteHeader(http.StatusInternalServerError)
	if err := errorTemplate.ExecuteTemplate(w, "error.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to execute error template")
		http.Error(w, "A critical error occurred and the error page could not be displayed.", http.StatusInternalServerError)
	}
}

// healthHandler reports gateway liveness for deployment probes.
func (h *HTTPEndpoint) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
