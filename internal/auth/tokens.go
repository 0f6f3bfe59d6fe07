// Package auth issues and verifies the signed tokens behind login sessions
// and password reset links.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expensetracker/internal/models"
)

const (
	issuer = "expense-tracker"

	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// signed with another key, or minted for a different purpose.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by session and reset tokens.
type Claims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	// Fingerprint ties a token to the password hash it was issued against,
	// so the token dies as soon as the password changes.
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 tokens with a single secret.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, sessionTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// SessionTTL is the lifetime of session tokens and their cookie.
func (m *TokenManager) SessionTTL() time.Duration { return m.sessionTTL }

// IssueSession creates a session token for the user. Like reset tokens it
// carries a fingerprint of the password hash, so changing the password ends
// every existing session.
func (m *TokenManager) IssueSession(user *models.User) (string, error) {
	token, _, err := m.issue(user.ID, PurposeSession, PasswordFingerprint(user.Password), m.sessionTTL)
	return token, err
}

// ParseSession validates a session token and returns its claims. Callers
// must still check the fingerprint with MatchesPassword.
func (m *TokenManager) ParseSession(tokenString string) (*Claims, error) {
	return m.parse(tokenString, PurposeSession)
}

// IssuePasswordReset creates a one-time reset token and reports when it expires.
func (m *TokenManager) IssuePasswordReset(user *models.User) (string, time.Time, error) {
	return m.issue(user.ID, PurposePasswordReset, PasswordFingerprint(user.Password), m.resetTTL)
}

// ParsePasswordReset validates a reset token's signature, expiry and purpose.
// Callers must still check the fingerprint against the user's current hash
// with MatchesPassword.
func (m *TokenManager) ParsePasswordReset(tokenString string) (*Claims, error) {
	return m.parse(tokenString, PurposePasswordReset)
}

// MatchesPassword reports whether the claims were issued for the given hash.
func (c *Claims) MatchesPassword(passwordHash string) bool {
	want := PasswordFingerprint(passwordHash)
	return subtle.ConstantTimeCompare([]byte(c.Fingerprint), []byte(want)) == 1
}

// PasswordFingerprint returns a short SHA-256 digest of a password hash.
func PasswordFingerprint(passwordHash string) string {
	h := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(h[:8])
}

func (m *TokenManager) issue(userID, purpose, fingerprint string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID:      userID,
		Purpose:     purpose,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
