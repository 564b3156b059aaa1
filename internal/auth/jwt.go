// Package auth validates the embedded admin session tokens that identify a
// tenant and the signatures of platform webhooks.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager issues and validates HS256 session tokens whose subject is
// the tenant's shop domain.
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionManager creates a new session manager.
// secret must be at least 32 characters for HS256 security.
func NewSessionManager(secret string, issuer string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// sessionClaims carries the shop domain the session was opened from.
type sessionClaims struct {
	jwt.RegisteredClaims
	Dest string `json:"dest,omitempty"`
}

// Issue creates a session token for tenantID.
func (m *SessionManager) Issue(tenantID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		Dest: "https://" + tenantID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateSession parses and validates a session token and returns the tenant
// it was issued for.
func (m *SessionManager) ValidateSession(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	tenantID := strings.ToLower(strings.TrimSpace(claims.Subject))
	if tenantID == "" {
		return "", fmt.Errorf("token has no subject")
	}
	if claims.Dest != "" && strings.TrimPrefix(claims.Dest, "https://") != tenantID {
		return "", fmt.Errorf("token destination %q does not match subject", claims.Dest)
	}
	return tenantID, nil
}
