package interfaces

import (
	"context"
)

// LLMService is a single-turn text generation client
type LLMService interface {
	// Generate returns the model's text answer to prompt under the given system instruction
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)

	// Name identifies the provider and model for logging and responses
	Name() string
}
