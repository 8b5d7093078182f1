package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrBadCookie is returned for cookies that fail signature or claim checks.
var ErrBadCookie = errors.New("invalid session cookie")

// CookieCodec signs and verifies the gateway session cookie. The cookie only
// carries the session ID; the bearer token itself never leaves the store.
type CookieCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewCookieCodec(secret string, maxAge time.Duration) *CookieCodec {
	return &CookieCodec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue produces a signed cookie value for the session ID.
func (c *CookieCodec) Issue(sessionID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the cookie value and returns the session ID it names.
func (c *CookieCodec) Verify(value string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadCookie
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrBadCookie
	}
	return claims.Subject, nil
}
