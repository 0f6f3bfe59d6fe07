package notify

import (
	"context"

	"expensetracker/internal/logger"
)

// Notifier sends password reset links.
type Notifier interface {
	SendPasswordReset(ctx context.Context, msg *PasswordReset) error
}

// LogNotifier writes reset links to the application log. It is the default
// when no message broker is configured.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendPasswordReset logs the reset link.
func (n *LogNotifier) SendPasswordReset(_ context.Context, msg *PasswordReset) error {
	logger.Get().Infow("Password reset requested",
		"user_id", msg.UserID,
		"email", msg.Email,
		"reset_url", msg.ResetURL,
		"expires_at", msg.ExpiresAt,
	)
	return nil
}
