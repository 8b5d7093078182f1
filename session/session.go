package session

import (
	"sync"
)

// Panel identifies one dashboard sub-view. Panels are mutually exclusive;
// switching to one hides its siblings and triggers that panel's data load.
type Panel string

const (
	PanelDashboard       Panel = "dashboard"
	PanelCustomers       Panel = "customers"
	PanelSupport         Panel = "support"
	PanelDocuments       Panel = "documents"
	PanelPayment         Panel = "payment"
	PanelOrders          Panel = "orders"
	PanelConfirmedOrders Panel = "confirmed-orders"
)

// KnownPanel reports whether p names a dashboard sub-view.
func KnownPanel(p Panel) bool {
	switch p {
	case PanelDashboard, PanelCustomers, PanelSupport, PanelDocuments,
		PanelPayment, PanelOrders, PanelConfirmedOrders:
		return true
	}
	return false
}

// Profile is the business profile returned by the backend on login and
// session verification. Field names follow the backend's own records.
type Profile map[string]any

// BusinessType normalizes the profile's business type ("restaurant" or
// "bakery"); empty when the profile does not carry one.
func (p Profile) BusinessType() string {
	for _, key := range []string{"Business Type", "business_type"} {
		if v, ok := p[key].(string); ok {
			return v
		}
	}
	return ""
}

// BusinessName returns the display name of the business, if present.
func (p Profile) BusinessName() string {
	for _, key := range []string{"Business Name", "business_name"} {
		if v, ok := p[key].(string); ok {
			return v
		}
	}
	return ""
}

// PaymentLink returns the configured payment link, if present.
func (p Profile) PaymentLink() string {
	for _, key := range []string{"payment_link", "Payment Link"} {
		if v, ok := p[key].(string); ok {
			return v
		}
	}
	return ""
}

// Session is the per-browser-tab session context. It is created on login,
// rebuilt on resume, and destroyed on logout or token expiry. All mutable
// state is behind the mutex; handlers and polling tasks share it.
type Session struct {
	id string

	mu            sync.RWMutex
	authenticated bool
	profile       Profile
	activePanel   Panel
	notifyOptIn   bool
}

func newSession(id string, profile Profile) *Session {
	return &Session{
		id:            id,
		authenticated: true,
		profile:       profile,
		activePanel:   PanelDashboard,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// expire flips the session to unauthenticated and reports whether this call
// performed the transition. The caller uses the report to keep forced-logout
// side effects to exactly one occurrence.
func (s *Session) expire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.authenticated
	s.authenticated = false
	return was
}

func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) SetProfile(p Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

func (s *Session) BusinessType() string {
	return s.Profile().BusinessType()
}

func (s *Session) ActivePanel() Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePanel
}

func (s *Session) SetActivePanel(p Panel) {
	s.mu.Lock()
	s.activePanel = p
	s.mu.Unlock()
}

func (s *Session) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifyOptIn
}

func (s *Session) SetNotifications(enabled bool) {
	s.mu.Lock()
	s.notifyOptIn = enabled
	s.mu.Unlock()
}
