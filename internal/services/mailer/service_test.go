package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
	delay    time.Duration
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.messages = append(c.messages, m...)
	return c.err
}

func configured() *common.SMTPConfig {
	return &common.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "secret"}
}

func TestSendEmail_NotConfigured(t *testing.T) {
	svc := NewServiceWithSender(&common.SMTPConfig{Host: "smtp.gmail.com", Port: 587}, &captureSender{}, arbor.NewNoOpLogger())

	assert.False(t, svc.IsConfigured())
	err := svc.SendEmail(context.Background(), "a@b.com", "s", "t", "<p>h</p>")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendEmail_BuildsMultipartMessage(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(configured(), sender, arbor.NewNoOpLogger())

	require.NoError(t, svc.SendEmail(context.Background(), "team@example.com", "Standup", "text body", "<h2>Standup</h2>"))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"bot@example.com"}, msg.GetHeader("From"), "From defaults to the SMTP username")
	assert.Equal(t, []string{"team@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Standup"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text body")
	assert.Contains(t, raw, "<h2>Standup</h2>")
}

func TestSendEmail_ExplicitFromAndTransportError(t *testing.T) {
	cfg := configured()
	cfg.From = "noreply@example.com"
	sender := &captureSender{err: errors.New("535 auth failed")}
	svc := NewServiceWithSender(cfg, sender, arbor.NewNoOpLogger())

	err := svc.SendEmail(context.Background(), "a@b.com", "s", "t", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
	require.Len(t, sender.messages, 1)
	assert.Equal(t, []string{"noreply@example.com"}, sender.messages[0].GetHeader("From"))
}

func TestSendEmail_ContextCancelled(t *testing.T) {
	svc := NewServiceWithSender(configured(), &captureSender{delay: 500 * time.Millisecond}, arbor.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := svc.SendEmail(ctx, "a@b.com", "s", "t", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
