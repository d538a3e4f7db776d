package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// JWTStore issues signed, self-expiring session tokens. It is the
// stateless fallback used when no Redis address is configured; Destroy
// is a no-op because there is no server-side record to remove, so
// logout relies on the cookie being cleared.
type JWTStore struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStore builds a signing session store.
func NewJWTStore(secret string, ttl time.Duration) *JWTStore {
	return &JWTStore{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Create signs a token that expires after the TTL.
func (s *JWTStore) Create() (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Valid verifies the signature and expiry.
func (s *JWTStore) Valid(tokenStr string) (bool, error) {
	if tokenStr == "" {
		return false, nil
	}
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return false, nil
	}
	return true, nil
}

// Destroy is stateless; the cookie removal is the logout.
func (s *JWTStore) Destroy(string) error {
	return nil
}
