package poll

import (
	"context"
	"errors"
	"html/template"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"merchant-dashboard/session"
)

type fakeView struct {
	mu     sync.Mutex
	id     string
	authed bool
	panel  session.Panel
	notify bool
}

func (v *fakeView) ID() string { return v.id }

func (v *fakeView) Authenticated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.authed
}

func (v *fakeView) ActivePanel() session.Panel {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.panel
}

func (v *fakeView) NotificationsEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notify
}

func (v *fakeView) setPanel(p session.Panel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panel = p
}

type fakeSource struct {
	pendingCalls   atomic.Int32
	confirmedCalls atomic.Int32
	newOrderCalls  atomic.Int32

	hasNew bool
	err    error

	// when set, PendingCards blocks until the channel is closed
	block chan struct{}
	// signalled when a blocked fetch has started
	started chan struct{}
}

func (s *fakeSource) PendingCards(context.Context) (template.HTML, error) {
	s.pendingCalls.Add(1)
	if s.block != nil {
		s.started <- struct{}{}
		<-s.block
	}
	return "<article>pending</article>", s.err
}

func (s *fakeSource) ConfirmedCards(context.Context) (template.HTML, error) {
	s.confirmedCalls.Add(1)
	return "<article>confirmed</article>", s.err
}

func (s *fakeSource) HasNewOrder(context.Context) (bool, error) {
	s.newOrderCalls.Add(1)
	return s.hasNew, s.err
}

type fakeTokens struct {
	ok bool
}

func (f *fakeTokens) Token(context.Context) (string, bool) {
	if !f.ok {
		return "", false
	}
	return "T1", true
}

type fakeSink struct {
	mu        sync.Mutex
	refreshed []session.Panel
	newOrders int
	expired   int
}

func (s *fakeSink) PanelRefreshed(_ string, panel session.Panel, _ template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, panel)
}

func (s *fakeSink) NewOrder(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newOrders++
}

func (s *fakeSink) SessionExpired(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired++
}

func (s *fakeSink) snapshot() ([]session.Panel, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]session.Panel(nil), s.refreshed...), s.newOrders, s.expired
}

func testIntervals() Intervals {
	return Intervals{OrderRefresh: time.Hour, Notify: time.Hour, Liveness: time.Hour}
}

func newTestPoller(view *fakeView, source *fakeSource, tokens *fakeTokens, sink *fakeSink, onExpired func(ctx context.Context, sessionID string) bool) *Poller {
	if onExpired == nil {
		onExpired = func(context.Context, string) bool { return true }
	}
	return New(view, source, tokens, sink, onExpired, testIntervals(), zerolog.Nop())
}

func TestRefreshTick_FetchesOnlyVisiblePanel(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelOrders}
	source := &fakeSource{}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)
	ctx := session.WithID(context.Background(), "s1")

	p.refreshTick(ctx)
	require.Equal(t, int32(1), source.pendingCalls.Load())
	require.Equal(t, int32(0), source.confirmedCalls.Load())

	refreshed, _, _ := sink.snapshot()
	require.Equal(t, []session.Panel{session.PanelOrders}, refreshed)
}

func TestRefreshTick_HiddenPanelsNeverFetched(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelCustomers}
	source := &fakeSource{}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)
	ctx := session.WithID(context.Background(), "s1")

	p.refreshTick(ctx)
	p.refreshTick(ctx)

	require.Equal(t, int32(0), source.pendingCalls.Load())
	require.Equal(t, int32(0), source.confirmedCalls.Load())
}

func TestRefreshTick_FollowsPanelSwitch(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelConfirmedOrders}
	source := &fakeSource{}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)
	ctx := session.WithID(context.Background(), "s1")

	p.refreshTick(ctx)
	require.Equal(t, int32(1), source.confirmedCalls.Load())

	view.setPanel(session.PanelOrders)
	p.refreshTick(ctx)
	require.Equal(t, int32(1), source.confirmedCalls.Load())
	require.Equal(t, int32(1), source.pendingCalls.Load())
}

func TestRefreshPending_SkipsWhileInFlight(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelOrders}
	source := &fakeSource{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)
	ctx := session.WithID(context.Background(), "s1")

	done := make(chan struct{})
	go func() {
		p.refreshPending(ctx)
		close(done)
	}()
	<-source.started

	// A tick firing while the first fetch is in flight is skipped.
	p.refreshPending(ctx)
	require.Equal(t, int32(1), source.pendingCalls.Load())

	close(source.block)
	<-done

	// Once idle again the next tick fetches.
	source.block = nil
	p.refreshPending(ctx)
	require.Equal(t, int32(2), source.pendingCalls.Load())
}

func TestRefreshPending_ErrorKeepsOldContent(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelOrders}
	source := &fakeSource{err: errors.New("backend down")}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)

	p.refreshPending(session.WithID(context.Background(), "s1"))

	refreshed, _, _ := sink.snapshot()
	require.Empty(t, refreshed)
}

func TestNotifyTick_RaisesNotificationWhenOptedIn(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelOrders, notify: true}
	source := &fakeSource{hasNew: true}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)

	p.notifyTick(session.WithID(context.Background(), "s1"))

	refreshed, newOrders, _ := sink.snapshot()
	require.Equal(t, 1, newOrders)
	// The visible pending panel is refreshed alongside the notification.
	require.Equal(t, []session.Panel{session.PanelOrders}, refreshed)
}

func TestNotifyTick_SilentWithoutOptIn(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelDashboard, notify: false}
	source := &fakeSource{hasNew: true}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)

	p.notifyTick(session.WithID(context.Background(), "s1"))

	refreshed, newOrders, _ := sink.snapshot()
	require.Zero(t, newOrders)
	require.Empty(t, refreshed)
}

func TestNotifyTick_NothingNew(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelOrders, notify: true}
	source := &fakeSource{hasNew: false}
	sink := &fakeSink{}
	p := newTestPoller(view, source, &fakeTokens{ok: true}, sink, nil)

	p.notifyTick(session.WithID(context.Background(), "s1"))

	_, newOrders, _ := sink.snapshot()
	require.Zero(t, newOrders)
	require.Equal(t, int32(0), source.pendingCalls.Load())
}

func TestLivenessTick_LiveTokenIsQuiet(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelDashboard}
	sink := &fakeSink{}
	p := newTestPoller(view, &fakeSource{}, &fakeTokens{ok: true}, sink, func(context.Context, string) bool {
		t.Fatal("onExpired must not run while the token is live")
		return false
	})

	p.livenessTick(session.WithID(context.Background(), "s1"))

	_, _, expired := sink.snapshot()
	require.Zero(t, expired)
}

func TestLivenessTick_DeadTokenForcesLogoutOnce(t *testing.T) {
	view := &fakeView{id: "s1", authed: true, panel: session.PanelDashboard}
	sink := &fakeSink{}
	var calls atomic.Int32
	p := newTestPoller(view, &fakeSource{}, &fakeTokens{ok: false}, sink, func(context.Context, string) bool {
		// The first caller wins the transition; later ones see false.
		return calls.Add(1) == 1
	})
	ctx := session.WithID(context.Background(), "s1")

	p.livenessTick(ctx)
	p.livenessTick(ctx)

	_, _, expired := sink.snapshot()
	require.Equal(t, 1, expired)
	require.Equal(t, int32(2), calls.Load())
}

func TestLivenessTick_UnauthenticatedSessionIgnored(t *testing.T) {
	view := &fakeView{id: "s1", authed: false}
	sink := &fakeSink{}
	p := newTestPoller(view, &fakeSource{}, &fakeTokens{ok: false}, sink, func(context.Context, string) bool {
		t.Fatal("onExpired must not run for an unauthenticated session")
		return false
	})

	p.livenessTick(session.WithID(context.Background(), "s1"))

	_, _, expired := sink.snapshot()
	require.Zero(t, expired)
}
