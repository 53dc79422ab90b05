// -----------------------------------------------------------------------
// Mailer Service - SMTP email sending for reminder notifications
// Credentials come from [smtp] config or SMTP_* environment variables
// -----------------------------------------------------------------------

package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when SMTP credentials are missing
var ErrNotConfigured = errors.New("SMTP 설정이 필요합니다.")

// Sender delivers a prepared message. gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service provides email sending over SMTP
type Service struct {
	config *common.SMTPConfig
	sender Sender
	logger arbor.ILogger
}

// NewService creates a new mailer service
func NewService(config *common.SMTPConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		sender: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}
}

// NewServiceWithSender creates a mailer service over a custom transport
func NewServiceWithSender(config *common.SMTPConfig, sender Sender, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		sender: sender,
		logger: logger,
	}
}

// IsConfigured checks if SMTP is configured with minimum required settings
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// from returns the configured sender address, defaulting to the SMTP username
func (s *Service) from() string {
	if s.config.From != "" {
		return s.config.From
	}
	return s.config.Username
}

// SendEmail sends a multipart/alternative message with text and HTML bodies
func (s *Service) SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from())
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	// DialAndSend has no context; run it aside so cancellation still returns promptly
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("smtp transport panic: %v", r)
			}
		}()
		done <- s.sender.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error().Err(err).Str("to", to).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("email send aborted: %w", ctx.Err())
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
