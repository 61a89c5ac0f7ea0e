package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the absolute lifetime of an issued session token. There is no
// server-side session state: the signed token is the session.
const SessionTTL = 30 * 24 * time.Hour

var (
	// ErrNoSecret means the signing secret is not configured - a startup-class
	// misconfiguration, not a per-request condition
	ErrNoSecret = errors.New("signing secret not configured")
	// ErrInvalidToken is the single verification outcome for every failure:
	// malformed token, signature mismatch, expired token, missing secret.
	// Callers must not be able to tell these cases apart.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded session token payload.
type Claims struct {
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	// ability to inject the clock (for unit testing expiry)
	NowFunc func() time.Time
}

func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{
		secret:  secret,
		ttl:     SessionTTL,
		NowFunc: time.Now,
	}
}

// Issue signs a new admin session token, valid for SessionTTL.
func (c *TokenCodec) Issue() (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoSecret
	}

	now := c.NowFunc()
	claims := jwt.MapClaims{
		"isAdmin": true,
		"iat":     now.Unix(),
		"exp":     now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Verify checks signature authenticity and expiration, and decodes the claims.
// Any failure yields ErrInvalidToken, nothing else.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if len(c.secret) == 0 {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.NowFunc),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	isAdmin, _ := mapClaims["isAdmin"].(bool)
	claims := &Claims{IsAdmin: isAdmin}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
