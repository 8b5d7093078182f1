package app

import (
	"context"
	"html/template"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"merchant-dashboard/backend"
	"merchant-dashboard/config"
	"merchant-dashboard/delivery"
	"merchant-dashboard/orders"
	"merchant-dashboard/poll"
	"merchant-dashboard/session"
)

// App holds the application's dependencies and state: session manager,
// backend client, renderer, notification hub, and the per-session pollers.
type App struct {
	cfg      config.Config
	log      zerolog.Logger
	sessions *session.Manager
	cookies  *session.CookieCodec
	client   *backend.Client
	renderer *orders.Renderer
	hub      *delivery.Hub
	Router   http.Handler

	mu      sync.Mutex
	pollers map[string]*poll.Poller
}

// New creates the App, configures dependencies, and sets up the router.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	// Centralize template parsing at startup for efficiency.
	delivery.ParseAllTemplates()

	var store session.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		store = session.NewRedisStore(rdb, cfg.Session.TokenMaxAge, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session store")
	} else {
		store = session.NewMemoryStore()
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		sessions: session.NewManager(store, cfg.Session.TokenMaxAge, log),
		cookies:  session.NewCookieCodec(cfg.Session.Secret, cfg.Session.TokenMaxAge),
		renderer: orders.NewRenderer(orders.TotalRecomputed),
		hub:      delivery.NewHub(log),
		pollers:  make(map[string]*poll.Poller),
	}

	a.client = backend.New(cfg.Backend.URL, cfg.Backend.Timeout, a.sessions, log)
	a.client.OnUnauthorized(a.handleUnauthorized)

	a.Router = delivery.NewRouter(a, a.hub, log)
	return a, nil
}

// Start runs the HTTP server on the configured address.
func (a *App) Start() error {
	a.log.Info().Str("addr", a.cfg.HTTP.Addr).Msg("gateway listening")
	return http.ListenAndServe(a.cfg.HTTP.Addr, a.Router)
}

func (a *App) Backend() *backend.Client {
	return a.client
}

func (a *App) Renderer() *orders.Renderer {
	return a.renderer
}

// BeginSession creates an authenticated session, signs its cookie, and
// starts its polling tasks.
func (a *App) BeginSession(ctx context.Context, token string, profile session.Profile) (*session.Session, string, error) {
	sess := a.sessions.Create(ctx, token, profile)
	cookie, err := a.cookies.Issue(sess.ID())
	if err != nil {
		a.sessions.Destroy(ctx, sess.ID())
		return nil, "", err
	}
	a.startPoller(sess)
	return sess, cookie, nil
}

// EndSession is the explicit logout path: polling cancelled, store purged,
// session forgotten.
func (a *App) EndSession(ctx context.Context, sessionID string) {
	a.stopPoller(sessionID)
	a.sessions.Destroy(ctx, sessionID)
}

// UpdateProfile replaces the session's cached business profile.
func (a *App) UpdateProfile(ctx context.Context, sess *session.Session, profile session.Profile) {
	a.sessions.UpdateProfile(ctx, sess, profile)
}

// handleUnauthorized is the backend client's 401 hook: the forced-logout
// transition, run at most once per occurrence.
func (a *App) handleUnauthorized(ctx context.Context) {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		// An unauthenticated call (e.g. a failed login) was rejected;
		// there is no session to tear down.
		return
	}
	a.forceLogout(ctx, sessionID)
}

// forceLogout expires the session and reports whether this call performed
// the transition.
func (a *App) forceLogout(ctx context.Context, sessionID string) bool {
	first := a.sessions.Expire(ctx, sessionID)
	if first {
		a.stopPoller(sessionID)
		a.hub.SessionExpired(sessionID)
		a.log.Info().Str("session", sessionID).Msg("session force-logged-out")
	}
	return first
}

func (a *App) startPoller(sess *session.Session) {
	p := poll.New(sess, a, a.sessions, a.hub, a.forceLogout, poll.Intervals{
		OrderRefresh: a.cfg.Poll.OrderRefreshInterval,
		Notify:       a.cfg.Poll.NotifyInterval,
		Liveness:     a.cfg.Poll.LivenessInterval,
	}, a.log)

	a.mu.Lock()
	if existing, ok := a.pollers[sess.ID()]; ok {
		existing.Stop()
	}
	a.pollers[sess.ID()] = p
	a.mu.Unlock()

	p.Start(context.Background())
}

func (a *App) stopPoller(sessionID string) {
	a.mu.Lock()
	p, ok := a.pollers[sessionID]
	delete(a.pollers, sessionID)
	a.mu.Unlock()
	if ok {
		p.Stop()
	}
}

// ensurePoller restarts polling for a session resumed from the store after a
// gateway restart.
func (a *App) ensurePoller(sess *session.Session) {
	a.mu.Lock()
	_, running := a.pollers[sess.ID()]
	a.mu.Unlock()
	if !running {
		a.startPoller(sess)
	}
}

// PendingCards fetches and renders the pending-orders panel. Implements the
// poller's panel source.
func (a *App) PendingCards(ctx context.Context) (template.HTML, error) {
	resp, err := a.client.Orders(ctx)
	if err != nil {
		return "", err
	}
	return a.renderer.Cards(orders.Normalize(resp, false), orders.ModePending)
}

// ConfirmedCards fetches and renders the confirmed-orders panel.
func (a *App) ConfirmedCards(ctx context.Context) (template.HTML, error) {
	resp, err := a.client.ConfirmedOrders(ctx)
	if err != nil {
		return "", err
	}
	return a.renderer.Cards(orders.Normalize(resp, true), orders.ModeConfirmed)
}

// HasNewOrder polls the backend's new-order signal.
func (a *App) HasNewOrder(ctx context.Context) (bool, error) {
	resp, err := a.client.NewOrders(ctx)
	if err != nil {
		return false, err
	}
	return resp.HasNewOrder, nil
}
