package delivery

import (
	"context"
	"net/http"

	"merchant-dashboard/backend"
	"merchant-dashboard/orders"
	"merchant-dashboard/session"
)

// AppDependencies defines the contract that the delivery layer (HTTP handlers)
// expects from the core application layer.
type AppDependencies interface {
	// Backend provides the authenticated client for the merchant API.
	Backend() *backend.Client

	// Renderer provides the order-card renderer.
	Renderer() *orders.Renderer

	// SessionMiddleware protects dashboard routes and stashes the session in
	// the request context.
	SessionMiddleware(next http.Handler) http.Handler

	SessionFromContext(ctx context.Context) (*session.Session, bool)

	// BeginSession creates an authenticated session after a successful login
	// and returns the signed cookie value that names it.
	BeginSession(ctx context.Context, token string, profile session.Profile) (*session.Session, string, error)

	// EndSession tears the session down: polling stopped, store purged.
	EndSession(ctx context.Context, sessionID string)

	// UpdateProfile replaces the session's cached business profile.
	UpdateProfile(ctx context.Context, sess *session.Session, profile session.Profile)
}
