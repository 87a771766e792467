// Package jwt signs and verifies HS256 access tokens carrying the user id.
package jwt

import (
	"context"
	"fmt"
	"time"

	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultIssuer is written into the iss claim
const DefaultIssuer = "openmusic-api"

// Manager implements interfaces.TokenManager
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ interfaces.TokenManager = (*Manager)(nil)

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// NewManager creates a token manager. ttl is the lifetime of issued tokens.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: DefaultIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID
func (m *Manager) Issue(_ context.Context, userID string) (string, error) {
	now := m.now().UTC()
	cl := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and lifetime of raw
func (m *Manager) Parse(_ context.Context, raw string) (string, error) {
	var out claims
	tkn, err := jwt.ParseWithClaims(raw, &out, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return "", &apperrors.AuthenticationError{Message: "access token is invalid or expired"}
	}
	if out.UserID == "" {
		return "", &apperrors.AuthenticationError{Message: "access token carries no user"}
	}
	return out.UserID, nil
}
