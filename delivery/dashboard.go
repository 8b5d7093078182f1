package delivery

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"merchant-dashboard/backend"
	"merchant-dashboard/orders"
	"merchant-dashboard/session"
)

// dashboardPageData holds everything the dashboard template needs for the
// currently active panel. Only the active panel's fields are populated; the
// rest stay zero.
type dashboardPageData struct {
	BusinessName  string
	BusinessType  string
	ActivePanel   session.Panel
	Banner        *Banner
	NotifyEnabled bool
	LoadError     string

	// dashboard panel
	Stats *backend.DashboardStats

	// orders / confirmed-orders panels
	Cards template.HTML

	// payment panel
	PaymentLink string
}

// dashboardHandler serves /dashboard, which is the aggregate-stats panel.
func (h *HTTPEndpoint) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	h.servePanel(w, r, session.PanelDashboard)
}

// panelHandler serves /dashboard/{panel}.
func (h *HTTPEndpoint) panelHandler(w http.ResponseWriter, r *http.Request) {
	panel := session.Panel(chi.URLParam(r, "panel"))
	if !session.KnownPanel(panel) {
		http.NotFound(w, r)
		return
	}
	h.servePanel(w, r, panel)
}

// servePanel records the panel transition and runs that panel's data load,
// exactly once per transition. Nothing is cached across transitions.
func (h *HTTPEndpoint) servePanel(w http.ResponseWriter, r *http.Request, panel session.Panel) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		// Should not happen behind the middleware; a safe fallback.
		h.log.Warn().Msg("session not found in context, redirecting to login")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sess.SetActivePanel(panel)

	data := dashboardPageData{
		BusinessName:  sess.Profile().BusinessName(),
		BusinessType:  sess.BusinessType(),
		ActivePanel:   panel,
		Banner:        h.flash.Pop(sess.ID()),
		NotifyEnabled: sess.NotificationsEnabled(),
	}

	if err := h.loadPanelData(r, sess, panel, &data); err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.log.Warn().Err(err).Str("panel", string(panel)).Msg("panel data load failed")
		data.LoadError = "Network error — could not load this panel. Please retry."
	}

	if err := dashboardTemplate.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.log.Error().Err(err).Msg("failed to execute dashboard template")
		http.Error(w, "Could not render the dashboard.", http.StatusInternalServerError)
	}
}

func (h *HTTPEndpoint) loadPanelData(r *http.Request, sess *session.Session, panel session.Panel, data *dashboardPageData) error {
	ctx := r.Context()

	switch panel {
	case session.PanelDashboard:
		// Stats and the profile refresh hit independent endpoints; fetch
		// them together.
		var (
			stats  backend.DashboardStats
			verify backend.VerifySessionResponse
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stats, err = h.app.Backend().Stats(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			verify, err = h.app.Backend().VerifySession(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		data.Stats = &stats
		if verify.ClientData != nil {
			h.app.UpdateProfile(ctx, sess, session.Profile(verify.ClientData))
			data.BusinessName = sess.Profile().BusinessName()
			data.BusinessType = sess.BusinessType()
		}

	case session.PanelOrders:
		resp, err := h.app.Backend().Orders(ctx)
		if err != nil {
			return err
		}
		cards, err := h.app.Renderer().Cards(orders.Normalize(resp, false), orders.ModePending)
		if err != nil {
			return err
		}
		data.Cards = cards

	case session.PanelConfirmedOrders:
		resp, err := h.app.Backend().ConfirmedOrders(ctx)
		if err != nil {
			return err
		}
		cards, err := h.app.Renderer().Cards(orders.Normalize(resp, true), orders.ModeConfirmed)
		if err != nil {
			return err
		}
		data.Cards = cards

	case session.PanelPayment:
		data.PaymentLink = sess.Profile().PaymentLink()

	case session.PanelCustomers, session.PanelSupport, session.PanelDocuments:
		// Form-only panels; no data load.
	}

	return nil
}

// notificationsHandler records the session's opt-in for new-order
// notifications.
func (h *HTTPEndpoint) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	enabled := r.Form.Get("enabled") == "on" || r.Form.Get("enabled") == "1"
	sess.SetNotifications(enabled)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
