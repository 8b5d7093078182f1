package session

import (
	"context"
	"sync"
	"time"
)

// Store persists the two session-scoped entries: the bearer token record and
// the serialized business profile. Storage failures degrade to false/absent
// returns rather than propagating; session persistence is a convenience, not
// a correctness requirement.
type Store interface {
	// StoreToken persists a token record. Returns false on storage failure.
	StoreToken(ctx context.Context, sessionID string, tok StoredToken) bool

	// RetrieveToken returns the token record for the session, or false when
	// absent or expired. Expired entries are purged on read.
	RetrieveToken(ctx context.Context, sessionID string) (StoredToken, bool)

	// StoreProfile persists the business profile. Returns false on failure.
	StoreProfile(ctx context.Context, sessionID string, profile Profile) bool

	// RetrieveProfile returns the cached profile, or false when absent.
	RetrieveProfile(ctx context.Context, sessionID string) (Profile, bool)

	// Remove clears both the token and the cached profile. Idempotent.
	Remove(ctx context.Context, sessionID string)
}

type memoryEntry struct {
	token   StoredToken
	profile Profile
}

// MemoryStore keeps session entries in process memory. It is the default
// store; entries vanish with the process, matching the tab-session scope of
// the original storage area.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithNow sets the clock, primarily for testing.
func WithNow(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) StoreToken(_ context.Context, sessionID string, tok StoredToken) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[sessionID]
	if entry == nil {
		entry = &memoryEntry{}
		m.entries[sessionID] = entry
	}
	entry.token = tok
	return true
}

func (m *MemoryStore) RetrieveToken(_ context.Context, sessionID string) (StoredToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[sessionID]
	if entry == nil || entry.token.Value == "" {
		return StoredToken{}, false
	}
	if !entry.token.Live(m.now()) {
		delete(m.entries, sessionID)
		return StoredToken{}, false
	}
	return entry.token, true
}

func (m *MemoryStore) StoreProfile(_ context.Context, sessionID string, profile Profile) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[sessionID]
	if entry == nil {
		entry = &memoryEntry{}
		m.entries[sessionID] = entry
	}
	entry.profile = profile
	return true
}

func (m *MemoryStore) RetrieveProfile(_ context.Context, sessionID string) (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[sessionID]
	if entry == nil || entry.profile == nil {
		return nil, false
	}
	return entry.profile, true
}

func (m *MemoryStore) Remove(_ context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
}
