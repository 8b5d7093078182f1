package app

import (
	"context"
	"net/http"

	"merchant-dashboard/delivery"
	"merchant-dashboard/session"
)

type contextKey string

const sessionContextKey contextKey = "app.session"

// SessionMiddleware guards dashboard routes. A request without a valid signed
// cookie, or whose session can no longer be found or resumed, is bounced to
// the login view with the cookie cleared.
func (a *App) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(delivery.SessionCookieName)
		if err != nil {
			redirectToLogin(w, r)
			return
		}

		sessionID, err := a.cookies.Verify(cookie.Value)
		if err != nil {
			a.log.Debug().Err(err).Msg("rejecting session cookie")
			redirectToLogin(w, r)
			return
		}

		ctx := session.WithID(r.Context(), sessionID)
		sess, ok := a.sessions.Lookup(ctx, sessionID)
		if !ok || !sess.Authenticated() {
			redirectToLogin(w, r)
			return
		}

		// A session resumed after a restart has no poller yet.
		a.ensurePoller(sess)

		ctx = context.WithValue(ctx, sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session stashed by SessionMiddleware.
func (a *App) SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     delivery.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
