package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
)

const (
	defaultClaudeModel     = "claude-haiku-4-5"
	defaultClaudeMaxTokens = 4096
)

// ClaudeService implements interfaces.LLMService using the Anthropic Messages API
type ClaudeService struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    arbor.ILogger
}

// NewClaudeService creates a Claude client. The API key must be non-empty.
func NewClaudeService(config *common.ClaudeConfig, timeout time.Duration, logger arbor.ILogger, opts ...option.RequestOption) (*ClaudeService, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude service (set OFFICEFLOW_CLAUDE_API_KEY or claude.api_key)")
	}

	model := config.Model
	if model == "" {
		model = defaultClaudeModel
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(config.APIKey)}, opts...)...)

	logger.Debug().
		Str("model", model).
		Int("max_tokens", maxTokens).
		Dur("timeout", timeout).
		Msg("Claude LLM service initialized")

	return &ClaudeService{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Name identifies the provider and model
func (s *ClaudeService) Name() string {
	return "claude/" + s.model
}

// Generate sends a single user turn with the given system prompt
func (s *ClaudeService) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Warn().Err(err).Str("model", s.model).Msg("Claude request failed")
		return "", fmt.Errorf("claude generation failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude response")
	}

	s.logger.Debug().
		Str("model", s.model).
		Int("response_length", out.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude generation completed")

	return out.String(), nil
}
