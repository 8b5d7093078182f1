package poll

import (
	"context"
	"html/template"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"merchant-dashboard/session"
)

// View is the slice of session state the poller reads: which panel the user
// is looking at and whether they opted into notifications.
type View interface {
	ID() string
	Authenticated() bool
	ActivePanel() session.Panel
	NotificationsEnabled() bool
}

// PanelSource fetches and renders panel content on the poller's behalf.
type PanelSource interface {
	PendingCards(ctx context.Context) (template.HTML, error)
	ConfirmedCards(ctx context.Context) (template.HTML, error)
	HasNewOrder(ctx context.Context) (bool, error)
}

// TokenChecker reports whether the session carried by ctx can still produce
// a live bearer token.
type TokenChecker interface {
	Token(ctx context.Context) (string, bool)
}

// Sink receives the poller's outputs: refreshed panel fragments, new-order
// notifications, and the session-expired alert.
type Sink interface {
	PanelRefreshed(sessionID string, panel session.Panel, fragment template.HTML)
	NewOrder(sessionID string)
	SessionExpired(sessionID string)
}

// Intervals holds the three task periods.
type Intervals struct {
	OrderRefresh time.Duration
	Notify       time.Duration
	Liveness     time.Duration
}

// task is the {Idle, Fetching} state of one periodic job. A tick that finds
// the task already fetching is skipped instead of piling up a second
// in-flight request for the same panel.
type task struct {
	fetching atomic.Bool
}

func (t *task) begin() bool {
	return t.fetching.CompareAndSwap(false, true)
}

func (t *task) end() {
	t.fetching.Store(false)
}

// Poller runs the periodic work for one session: refreshing visible order
// panels, checking for new orders, and verifying the token is still live.
// All tasks are cancelled together on logout.
type Poller struct {
	view      View
	panels    PanelSource
	tokens    TokenChecker
	sink      Sink
	onExpired func(ctx context.Context, sessionID string) bool
	intervals Intervals
	log       zerolog.Logger

	cancel context.CancelFunc

	pending   task
	confirmed task
	notify    task
}

func New(view View, panels PanelSource, tokens TokenChecker, sink Sink, onExpired func(ctx context.Context, sessionID string) bool, intervals Intervals, log zerolog.Logger) *Poller {
	return &Poller{
		view:      view,
		panels:    panels,
		tokens:    tokens,
		sink:      sink,
		onExpired: onExpired,
		intervals: intervals,
		log:       log.With().Str("session", view.ID()).Logger(),
	}
}

// Start launches the polling loop. The loop owns three tickers; each firing
// dispatches a non-blocking tick so a slow backend never delays the next one.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(session.WithID(ctx, p.view.ID()))
	go p.loop(ctx)
}

// Stop cancels every periodic task together.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) loop(ctx context.Context) {
	refresh := time.NewTicker(p.intervals.OrderRefresh)
	defer refresh.Stop()
	notify := time.NewTicker(p.intervals.Notify)
	defer notify.Stop()
	liveness := time.NewTicker(p.intervals.Liveness)
	defer liveness.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C:
			go p.refreshTick(ctx)
		case <-notify.C:
			go p.notifyTick(ctx)
		case <-liveness.C:
			go p.livenessTick(ctx)
		}
	}
}

// refreshTick re-fetches whichever order panel is currently visible. Both
// visibility checks run every tick; a hidden panel is never fetched.
func (p *Poller) refreshTick(ctx context.Context) {
	panel := p.view.ActivePanel()
	if panel == session.PanelOrders {
		p.refreshPending(ctx)
	}
	if panel == session.PanelConfirmedOrders {
		p.refreshConfirmed(ctx)
	}
}

func (p *Poller) refreshPending(ctx context.Context) {
	if !p.pending.begin() {
		p.log.Debug().Msg("pending refresh still in flight, tick skipped")
		return
	}
	defer p.pending.end()

	fragment, err := p.panels.PendingCards(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("pending panel refresh failed")
		return
	}
	p.sink.PanelRefreshed(p.view.ID(), session.PanelOrders, fragment)
}

func (p *Poller) refreshConfirmed(ctx context.Context) {
	if !p.confirmed.begin() {
		p.log.Debug().Msg("confirmed refresh still in flight, tick skipped")
		return
	}
	defer p.confirmed.end()

	fragment, err := p.panels.ConfirmedCards(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("confirmed panel refresh failed")
		return
	}
	p.sink.PanelRefreshed(p.view.ID(), session.PanelConfirmedOrders, fragment)
}

// notifyTick polls the new-order signal. A positive answer raises the
// notification (for opted-in sessions) and refreshes the pending panel when
// it is on screen.
func (p *Poller) notifyTick(ctx context.Context) {
	if !p.notify.begin() {
		return
	}
	defer p.notify.end()

	hasNew, err := p.panels.HasNewOrder(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("new-order check failed")
		return
	}
	if !hasNew {
		return
	}

	if p.view.NotificationsEnabled() {
		p.sink.NewOrder(p.view.ID())
	}
	if p.view.ActivePanel() == session.PanelOrders {
		p.refreshPending(ctx)
	}
}

// livenessTick force-logs-out a session that believes it is authenticated
// but whose store can no longer produce a valid token.
func (p *Poller) livenessTick(ctx context.Context) {
	if !p.view.Authenticated() {
		return
	}
	if _, ok := p.tokens.Token(ctx); ok {
		return
	}

	p.log.Info().Msg("token no longer live, forcing logout")
	if p.onExpired(ctx, p.view.ID()) {
		p.sink.SessionExpired(p.view.ID())
	}
	p.Stop()
}
