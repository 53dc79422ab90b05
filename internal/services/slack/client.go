package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout per webhook call.
	DefaultTimeout = 10 * time.Second

	// DefaultRatePerSecond matches Slack's incoming webhook guidance.
	DefaultRatePerSecond = 1.0

	maxErrorBody = 512
)

// Client posts notifications to Slack incoming webhooks.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit sets the outbound request rate. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Slack webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRatePerSecond), 1),
		logger:     arbor.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WebhookError is returned when Slack answers with a non-2xx status.
type WebhookError struct {
	StatusCode int
	Body       string
}

func (e *WebhookError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("slack webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("slack webhook returned status %d: %s", e.StatusCode, e.Body)
}

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type string      `json:"type"`
	Text *textObject `json:"text,omitempty"`
}

// Payload is the webhook body: a plain-text fallback plus one mrkdwn section.
type Payload struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks"`
}

// BuildPayload renders the notification body for a reminder.
func BuildPayload(title, message string, when time.Time) Payload {
	body := fmt.Sprintf("*%s*\n\n%s\n\n일시: %s", title, message, common.FormatKoreanDateTime(when))
	return Payload{
		Text: title,
		Blocks: []block{
			{Type: "section", Text: &textObject{Type: "mrkdwn", Text: body}},
		},
	}
}

// SendSlack posts a notification to webhookURL.
func (c *Client) SendSlack(ctx context.Context, webhookURL, title, message string, when time.Time) error {
	if webhookURL == "" {
		return fmt.Errorf("slack webhook URL is empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait aborted: %w", err)
	}

	body, err := json.Marshal(BuildPayload(title, message, when))
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &WebhookError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	c.logger.Debug().
		Str("title", title).
		Int("status", resp.StatusCode).
		Msg("Slack notification sent")

	return nil
}
