package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCredential = errors.New("not signed in")
	ErrExpired      = errors.New("session expired, sign in again")
)

// TokenSource supplies the bearer credential attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Credential holds the bearer token of the signed-in user. The token is opaque
// to the client; when it is a JWT its exp claim is read, without verifying the
// signature, so an expired session fails before a request is sent.
type Credential struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewCredential(token string) *Credential {
	return &Credential{token: token, now: time.Now}
}

// Set replaces the credential (login).
func (c *Credential) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear drops the credential (logout).
func (c *Credential) Clear() {
	c.Set("")
}

func (c *Credential) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		return "", ErrNoCredential
	}
	exp, err := ExpiresAt(token)
	if err != nil {
		// Not a JWT; the service decides.
		return token, nil
	}
	if !exp.IsZero() && !c.now().Before(exp) {
		return "", ErrExpired
	}
	return token, nil
}

// ExpiresAt reads the exp claim of an unverified JWT. A token without exp
// returns the zero time.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
