package delivery

import (
	"sync"
	"time"
)

// bannerTTL matches the auto-dismiss window of the original UI.
const bannerTTL = 5 * time.Second

const (
	bannerSuccess = "success"
	bannerError   = "error"
)

// Banner is a one-shot success or error message shown on the next page
// render. Banners expire after bannerTTL whether or not they were seen.
type Banner struct {
	Kind    string
	Message string
	expires time.Time
}

// FlashStore keeps at most one pending banner per session.
type FlashStore struct {
	mu      sync.Mutex
	banners map[string]Banner
	now     func() time.Time
}

func NewFlashStore() *FlashStore {
	return &FlashStore{
		banners: make(map[string]Banner),
		now:     time.Now,
	}
}

func (f *FlashStore) Set(sessionID, kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banners[sessionID] = Banner{
		Kind:    kind,
		Message: message,
		expires: f.now().Add(bannerTTL),
	}
}

// Pop consumes the pending banner, if one exists and has not expired.
func (f *FlashStore) Pop(sessionID string) *Banner {
	f.mu.Lock()
	defer f.mu.Unlock()
	banner, ok := f.banners[sessionID]
	if !ok {
		return nil
	}
	delete(f.banners, sessionID)
	if f.now().After(banner.expires) {
		return nil
	}
	return &banner
}
