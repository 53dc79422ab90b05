package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
)

// NewLLMService selects the provider from configuration.
// Test mode is returned when it is forced or the selected provider has no API key.
func NewLLMService(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	if config.LLM.TestMode {
		logger.Info().Msg("LLM test mode enabled, summaries use the deterministic response")
		return NewTestModeService(), nil
	}

	timeout := common.ParseDurationOr(config.LLM.Timeout, common.DefaultLLMTimeout)

	switch config.LLM.Provider {
	case common.LLMProviderClaude, "":
		if config.Claude.APIKey == "" {
			logger.Warn().Str("provider", "claude").Msg("No API key configured, using LLM test mode")
			return NewTestModeService(), nil
		}
		return NewClaudeService(&config.Claude, timeout, logger)

	case common.LLMProviderGemini:
		if config.Gemini.APIKey == "" {
			logger.Warn().Str("provider", "gemini").Msg("No API key configured, using LLM test mode")
			return NewTestModeService(), nil
		}
		return NewGeminiService(ctx, &config.Gemini, timeout, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.Provider)
	}
}
