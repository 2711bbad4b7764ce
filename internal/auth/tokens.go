package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionTTL is how long a conversation stays live without rotation.
	SessionTTL = 5 * time.Minute
	// AuthTTL marks a device as recognized between conversations.
	AuthTTL = 3 * 24 * time.Hour
)

// Verification is the outcome of checking a token. Verify never fails
// hard: an invalid or aged-out token is an ordinary state the caller
// handles by re-authenticating the user.
type Verification struct {
	Valid   bool
	Expired bool
	Mobile  string
}

type claims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies the session and auth tokens keyed by
// mobile number (HS256, shared secret).
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service from the TOKEN_SECRET
// environment variable.
func NewTokenService() (*TokenService, error) {
	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("missing TOKEN_SECRET in environment variables")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// NewTokenServiceWithSecret creates a token service with an explicit secret
func NewTokenServiceWithSecret(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// IssueSessionToken signs a short-lived token; it is the live "are we
// still in a conversation" key and the BotIntent correlation key.
func (t *TokenService) IssueSessionToken(mobileNumber string) (string, error) {
	return t.issue(mobileNumber, SessionTTL)
}

// IssueAuthToken signs a long-lived token marking a returning,
// already-onboarded device.
func (t *TokenService) IssueAuthToken(mobileNumber string) (string, error) {
	return t.issue(mobileNumber, AuthTTL)
}

func (t *TokenService) issue(mobileNumber string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so two tokens minted in the same second for
			// the same number never collide as session keys.
			ID:        uuid.NewString(),
			Subject:   mobileNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Verify checks a token and reports whether it is valid, and if not,
// whether it merely aged out rather than being malformed or forged.
func (t *TokenService) Verify(token string) Verification {
	if token == "" {
		return Verification{}
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			mobile := ""
			if parsed != nil {
				if c, ok := parsed.Claims.(*claims); ok {
					mobile = c.Subject
				}
			}
			return Verification{Expired: true, Mobile: mobile}
		}
		return Verification{}
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Verification{}
	}
	return Verification{Valid: true, Mobile: c.Subject}
}
