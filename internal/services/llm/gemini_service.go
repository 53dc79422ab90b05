package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiService implements interfaces.LLMService using the Gemini API
type GeminiService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  arbor.ILogger
}

// NewGeminiService creates a Gemini client. The API key must be non-empty.
func NewGeminiService(ctx context.Context, config *common.GeminiConfig, timeout time.Duration, logger arbor.ILogger) (*GeminiService, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("Google API key is required for Gemini service (set OFFICEFLOW_GEMINI_API_KEY or gemini.api_key)")
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized")

	return &GeminiService{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Name identifies the provider and model
func (s *GeminiService) Name() string {
	return "gemini/" + s.model
}

// Generate sends a single user turn with the given system instruction
func (s *GeminiService) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{genai.NewPartFromText(prompt)}},
	}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.model, contents, config)
	if err != nil {
		if delay := ExtractRetryDelay(err); delay > 0 {
			s.logger.Warn().Err(err).Dur("retry_after", delay).Msg("Gemini rate limited")
		} else {
			s.logger.Warn().Err(err).Str("model", s.model).Msg("Gemini request failed")
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	// First candidate carrying text wins
	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini")
	}

	s.logger.Debug().
		Str("model", s.model).
		Int("response_length", out.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return out.String(), nil
}
