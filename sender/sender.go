package sender

import (
	"context"
	"time"
)

// SendResult describes one delivered message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers transactional email (order confirmations, contact
// notifications).
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}
