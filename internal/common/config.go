package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	SMTP        SMTPConfig      `toml:"smtp"`
	Slack       SlackConfig     `toml:"slack"`
	LLM         LLMConfig       `toml:"llm"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Documents   DocumentsConfig `toml:"documents"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects the persistence backend.
// "json" keeps one flat file per collection under DataDir, "badger" uses badgerhold.
type StorageConfig struct {
	Type    string       `toml:"type"`     // "json" (default) or "badger"
	DataDir string       `toml:"data_dir"` // Directory for logs.json, reminders.json, documents-history.json
	Badger  BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// SchedulerConfig controls the reminder scheduler
type SchedulerConfig struct {
	Enabled         bool   `toml:"enabled"`
	Schedule        string `toml:"schedule"`         // Cron expression with seconds field (default: every minute)
	DispatchTimeout string `toml:"dispatch_timeout"` // Upper bound for a single reminder delivery (default: "2m")
}

// SMTPConfig holds the email transport settings (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS)
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"` // Defaults to Username when empty
}

// SlackConfig holds the webhook transport settings
type SlackConfig struct {
	Timeout       string  `toml:"timeout"`         // HTTP timeout per webhook call (default: "10s")
	RatePerSecond float64 `toml:"rate_per_second"` // Incoming webhooks accept roughly one message per second
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains provider-independent summarizer settings
type LLMConfig struct {
	Provider            LLMProvider `toml:"provider"`                // "claude" or "gemini"
	TestMode            bool        `toml:"test_mode"`               // Always answer with the deterministic test response
	AutoTestModeOnQuota bool        `toml:"auto_test_mode_on_quota"` // Fall back to test mode on quota/rate-limit errors
	Timeout             string      `toml:"timeout"`                 // Per-request timeout (default: "2m")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// DocumentsConfig controls template PDF generation
type DocumentsConfig struct {
	OutputDir    string `toml:"output_dir"`    // Generated PDFs are written here
	TemplatesDir string `toml:"templates_dir"` // Optional *.yaml custom templates
	FontDir      string `toml:"font_dir"`      // Optional UTF-8 TTF fonts (NanumGothic.ttf etc.) for Korean output
	CreatedBy    string `toml:"created_by"`    // Recorded on history entries
}

// DefaultSchedule fires at second zero of every minute.
const DefaultSchedule = "0 * * * * *"

// DefaultLLMTimeout bounds a single summarization request
const DefaultLLMTimeout = 2 * time.Minute

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type:    "json",
			DataDir: "./data",
			Badger: BadgerConfig{
				Path: "./data/badger",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			Schedule:        DefaultSchedule,
			DispatchTimeout: "2m",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Slack: SlackConfig{
			Timeout:       "10s",
			RatePerSecond: 1,
		},
		LLM: LLMConfig{
			Provider:            LLMProviderClaude,
			TestMode:            false,
			AutoTestModeOnQuota: false,
			Timeout:             "2m",
		},
		Claude: ClaudeConfig{
			Model:     "claude-haiku-4-5",
			MaxTokens: 4096,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Documents: DocumentsConfig{
			OutputDir:    "./data/documents",
			TemplatesDir: "./templates",
			CreatedBy:    "system",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// CLI overrides are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("OFFICEFLOW_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("OFFICEFLOW_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("OFFICEFLOW_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if storageType := os.Getenv("OFFICEFLOW_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if dataDir := os.Getenv("OFFICEFLOW_DATA_DIR"); dataDir != "" {
		config.Storage.DataDir = dataDir
	}
	if badgerPath := os.Getenv("OFFICEFLOW_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("OFFICEFLOW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("OFFICEFLOW_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("OFFICEFLOW_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("OFFICEFLOW_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}

	// SMTP configuration keeps the variable names deployments already use
	if host := os.Getenv("SMTP_HOST"); host != "" {
		config.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USER"); user != "" {
		config.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASS"); pass != "" {
		config.SMTP.Password = pass
	}
	if from := os.Getenv("SMTP_FROM"); from != "" {
		config.SMTP.From = from
	}

	// LLM configuration
	if provider := os.Getenv("OFFICEFLOW_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(strings.ToLower(provider))
	}
	if testMode := os.Getenv("OFFICEFLOW_LLM_TEST_MODE"); testMode != "" {
		if tm, err := strconv.ParseBool(testMode); err == nil {
			config.LLM.TestMode = tm
		}
	}
	if auto := os.Getenv("AI_AUTO_TEST_MODE"); auto != "" {
		if a, err := strconv.ParseBool(auto); err == nil {
			config.LLM.AutoTestModeOnQuota = a
		}
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}

	// Documents configuration
	if outputDir := os.Getenv("OFFICEFLOW_DOCUMENTS_OUTPUT_DIR"); outputDir != "" {
		config.Documents.OutputDir = outputDir
	}
	if fontDir := os.Getenv("OFFICEFLOW_FONT_DIR"); fontDir != "" {
		config.Documents.FontDir = fontDir
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "json", "badger":
	default:
		return fmt.Errorf("invalid storage.type %q: must be json or badger", c.Storage.Type)
	}

	if c.Scheduler.Enabled {
		if err := ValidateSchedule(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("invalid scheduler.schedule: %w", err)
		}
	}

	switch c.LLM.Provider {
	case LLMProviderClaude, LLMProviderGemini:
	default:
		return fmt.Errorf("invalid llm.provider %q: must be claude or gemini", c.LLM.Provider)
	}

	return nil
}

// ValidateSchedule parses a six-field (seconds-first) cron expression
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return err
	}
	return nil
}

// ParseDurationOr returns the parsed duration or fallback when s is empty or malformed
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
