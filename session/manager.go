package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns session lifecycle: create on login, rebuild on resume, destroy
// on logout or token expiry. Live sessions are held in memory; the token and
// profile entries live in the Store so a gateway restart can resume them.
type Manager struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time
	log    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerNow sets the clock, primarily for testing.
func WithManagerNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(store Store, maxAge time.Duration, log zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		maxAge:   maxAge,
		now:      time.Now,
		log:      log,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a fresh authenticated session for a newly issued bearer
// token and business profile.
func (m *Manager) Create(ctx context.Context, token string, profile Profile) *Session {
	sess := newSession(uuid.NewString(), profile)

	if !m.store.StoreToken(ctx, sess.ID(), NewStoredToken(token, m.now(), m.maxAge)) {
		m.log.Warn().Str("session", sess.ID()).Msg("token not persisted, session will not survive restart")
	}
	m.store.StoreProfile(ctx, sess.ID(), profile)

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	m.log.Info().Str("session", sess.ID()).Str("business_type", profile.BusinessType()).Msg("session created")
	return sess
}

// Lookup resolves a session ID to a live session. A session unknown to this
// process but whose store still holds a valid token and a cached profile is
// rebuilt, which is how a returning tab lands straight on the dashboard.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return sess, true
	}

	tok, ok := m.store.RetrieveToken(ctx, sessionID)
	if !ok || !tok.Live(m.now()) {
		return nil, false
	}
	profile, ok := m.store.RetrieveProfile(ctx, sessionID)
	if !ok {
		return nil, false
	}

	sess = newSession(sessionID, profile)

	m.mu.Lock()
	// Another request may have resumed concurrently; keep the first.
	if existing, ok := m.sessions[sessionID]; ok {
		sess = existing
	} else {
		m.sessions[sessionID] = sess
	}
	m.mu.Unlock()

	m.log.Info().Str("session", sessionID).Msg("session resumed from store")
	return sess, true
}

// Token returns the bearer value for the session carried by ctx, when the
// store can still produce a live one.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	sessionID, ok := IDFromContext(ctx)
	if !ok {
		return "", false
	}
	tok, ok := m.store.RetrieveToken(ctx, sessionID)
	if !ok {
		return "", false
	}
	return tok.Value, true
}

// Expire marks the session unauthenticated and purges its stored entries.
// Reports whether this call performed the transition; repeated calls for the
// same occurrence are no-ops.
func (m *Manager) Expire(ctx context.Context, sessionID string) bool {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	first := true
	if ok {
		first = sess.expire()
	}
	m.store.Remove(ctx, sessionID)
	return first
}

// Destroy removes the session entirely. Used on logout after Expire-style
// cleanup has run.
func (m *Manager) Destroy(ctx context.Context, sessionID string) {
	m.store.Remove(ctx, sessionID)

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	m.log.Info().Str("session", sessionID).Msg("session destroyed")
}

// UpdateProfile replaces the cached business profile in both the live session
// and the store.
func (m *Manager) UpdateProfile(ctx context.Context, sess *Session, profile Profile) {
	sess.SetProfile(profile)
	m.store.StoreProfile(ctx, sess.ID(), profile)
}
