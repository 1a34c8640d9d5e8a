// Package jwtmw はセッショントークンの発行と検証ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySessionID is returned when a token is requested for a blank session id.
var ErrEmptySessionID = errors.New("session id is required")

// Generator はセッションIDを sub に持つ HS256 トークンを発行します。
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT for sessionID and returns it with its expiry.
func (g *Generator) GenerateToken(sessionID string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, ErrEmptySessionID
	}
	now := g.now()
	expiresAt := now.Add(g.expiration)

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Expiration returns the lifetime of issued tokens.
func (g *Generator) Expiration() time.Duration {
	return g.expiration
}
