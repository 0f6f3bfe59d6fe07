// Package notify delivers password reset links to users.
package notify

import (
	"encoding/json"
	"time"
)

// TypePasswordReset identifies password reset messages on the wire.
const TypePasswordReset = "password_reset"

// PasswordReset carries everything a mail worker needs to send a reset link.
type PasswordReset struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPasswordReset creates a reset message stamped with the current time.
func NewPasswordReset(userID, username, email, resetURL string, expiresAt time.Time) *PasswordReset {
	return &PasswordReset{
		Type:      TypePasswordReset,
		UserID:    userID,
		Username:  username,
		Email:     email,
		ResetURL:  resetURL,
		ExpiresAt: expiresAt,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PasswordReset) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
