package session

import (
	"time"

	"github.com/lestrrat-go/jwx/jwt"
)

// StoredToken is a bearer credential with its expiry bookkeeping.
// ExpiresAt is issuedAt plus the configured max age, tightened to the
// token's own exp claim when the backend hands us a JWT that dies sooner.
type StoredToken struct {
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Live reports whether the token can still be presented to the backend.
func (t StoredToken) Live(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// NewStoredToken stamps a raw bearer value with issue and expiry times.
func NewStoredToken(value string, now time.Time, maxAge time.Duration) StoredToken {
	expires := now.Add(maxAge)

	// The backend issues JWTs; respect the exp claim when it is stricter.
	// Signature verification stays the backend's job, we only read the claim.
	if parsed, err := jwt.Parse([]byte(value)); err == nil {
		if exp := parsed.Expiration(); !exp.IsZero() && exp.Before(expires) {
			expires = exp
		}
	}

	return StoredToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: expires,
	}
}
