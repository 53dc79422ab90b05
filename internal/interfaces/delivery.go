package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/officeflow/internal/models"
)

// SlackSender posts a notification to a Slack incoming webhook
type SlackSender interface {
	SendSlack(ctx context.Context, webhookURL, title, message string, when time.Time) error
}

// EmailSender sends a multipart (text + HTML) email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error
	IsConfigured() bool
}

// DeliveryService sends a reminder over every channel it requests and reports per-channel outcomes.
// Transport failures are captured in the result, never returned as errors.
type DeliveryService interface {
	Deliver(ctx context.Context, reminder *models.Reminder) models.DeliveryResult
}
