package api

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericogr/chimera-arena/internal/keys"
)

var ErrInvalidToken = errors.New("invalid session token")

const defaultSessionTTL = 24 * time.Hour

// SessionSigner issues and verifies HS256 session tokens whose subject is a
// wallet address.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionSigner builds a signer for secret. An empty secret gets a random
// in-memory one, which is only useful for local development since tokens do
// not survive a restart.
func NewSessionSigner(secret string, ttl time.Duration) (*SessionSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := crand.Read(key); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionSigner{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for address.
func (s *SessionSigner) Issue(address string) (string, error) {
	addr := keys.NormalizeAddress(address)
	if addr == "" || keys.IsAI(addr) {
		return "", fmt.Errorf("cannot issue a session for %q", address)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   addr,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the token signature and expiry and returns the wallet
// address it was issued for.
func (s *SessionSigner) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	addr := keys.NormalizeAddress(claims.Subject)
	if addr == "" || keys.IsAI(addr) {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return addr, nil
}
