package delivery

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires every route of the gateway.
func NewRouter(deps AppDependencies, hub *Hub, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	h := &HTTPEndpoint{
		app:   deps,
		flash: NewFlashStore(),
		hub:   hub,
		log:   log,
	}

	// --- Global Middleware ---
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	// --- Public Routes ---
	r.Get("/", h.homeHandler)
	r.Get("/health", h.healthHandler)
	r.Get("/error", h.errorHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// --- Authentication Routes ---
	r.Group(func(r chi.Router) {
		r.Get("/login", h.loginHandler)
		r.Post("/login", h.loginSubmitHandler)
		r.Get("/register", h.registrationHandler)
		r.Post("/register", h.registrationSubmitHandler)
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionMiddleware)

		r.Get("/dashboard", h.dashboardHandler)
		r.Get("/dashboard/{panel}", h.panelHandler)

		r.Post("/dashboard/orders/confirm", h.confirmOrderHandler)
		r.Post("/dashboard/customers", h.addCustomerHandler)
		r.Post("/dashboard/customers/non-member", h.addNonMemberHandler)
		r.Post("/dashboard/documents", h.uploadDocumentHandler)
		r.Post("/dashboard/payment", h.updatePaymentLinkHandler)
		r.Post("/dashboard/notifications", h.notificationsHandler)

		r.Get("/ws", h.wsHandler)
		r.Post("/logout", h.logoutHandler)
	})

	return r
}

// requestLogger logs one line per request with the status and duration.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
