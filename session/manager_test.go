package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"merchant-dashboard/session"
)

func newTestManager(t *testing.T, store session.Store) *session.Manager {
	t.Helper()
	return session.NewManager(store, 8*time.Hour, zerolog.Nop())
}

func TestManager_CreateAndLookup(t *testing.T) {
	m := newTestManager(t, session.NewMemoryStore())
	ctx := context.Background()

	sess := m.Create(ctx, "T1", session.Profile{"business_type": "restaurant"})
	require.NotEmpty(t, sess.ID())
	require.True(t, sess.Authenticated())
	require.Equal(t, session.PanelDashboard, sess.ActivePanel())

	got, ok := m.Lookup(ctx, sess.ID())
	require.True(t, ok)
	require.Same(t, sess, got)
}

func TestManager_LookupUnknownSession(t *testing.T) {
	m := newTestManager(t, session.NewMemoryStore())

	_, ok := m.Lookup(context.Background(), "nobody")
	require.False(t, ok)
}

func TestManager_ResumeFromStore(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	first := newTestManager(t, store)
	sess := first.Create(ctx, "T1", session.Profile{"business_name": "Corner Bakery"})

	// A fresh manager simulates a gateway restart sharing the same store.
	second := newTestManager(t, store)
	resumed, ok := second.Lookup(ctx, sess.ID())
	require.True(t, ok)
	require.Equal(t, sess.ID(), resumed.ID())
	require.True(t, resumed.Authenticated())
	require.Equal(t, "Corner Bakery", resumed.Profile().BusinessName())
}

func TestManager_TokenRequiresContextSession(t *testing.T) {
	m := newTestManager(t, session.NewMemoryStore())
	ctx := context.Background()

	sess := m.Create(ctx, "T1", session.Profile{})

	_, ok := m.Token(ctx)
	require.False(t, ok)

	value, ok := m.Token(session.WithID(ctx, sess.ID()))
	require.True(t, ok)
	require.Equal(t, "T1", value)
}

func TestManager_ExpireIsExactlyOnce(t *testing.T) {
	m := newTestManager(t, session.NewMemoryStore())
	ctx := context.Background()

	sess := m.Create(ctx, "T1", session.Profile{})

	require.True(t, m.Expire(ctx, sess.ID()))
	require.False(t, sess.Authenticated())
	_, ok := m.Token(session.WithID(ctx, sess.ID()))
	require.False(t, ok)

	// The second caller observing the same occurrence gets false.
	require.False(t, m.Expire(ctx, sess.ID()))
}

func TestManager_DestroyForgetsSession(t *testing.T) {
	m := newTestManager(t, session.NewMemoryStore())
	ctx := context.Background()

	sess := m.Create(ctx, "T1", session.Profile{})
	m.Destroy(ctx, sess.ID())

	_, ok := m.Lookup(ctx, sess.ID())
	require.False(t, ok)
}

func TestManager_UpdateProfilePersists(t *testing.T) {
	store := session.NewMemoryStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	sess := m.Create(ctx, "T1", session.Profile{"business_name": "Old Name"})
	m.UpdateProfile(ctx, sess, session.Profile{"business_name": "New Name"})

	require.Equal(t, "New Name", sess.Profile().BusinessName())
	stored, ok := store.RetrieveProfile(ctx, sess.ID())
	require.True(t, ok)
	require.Equal(t, "New Name", stored.BusinessName())
}
