package session

import "context"

// A private type for the context key to prevent collisions.
type contextKey string

const sessionIDKey contextKey = "session_id"

// WithID returns a context carrying the session ID. The backend client reads
// it back to resolve which session's token to present.
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// IDFromContext extracts the session ID placed by WithID.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}
