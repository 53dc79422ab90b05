package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved runtime settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("OfficeFlow", GetVersion())

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Type).
		Bool("scheduler", config.Scheduler.Enabled).
		Str("llm_provider", string(config.LLM.Provider)).
		Msg("Runtime configuration")
}
