package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/handlers"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/logs"
	"github.com/ternarybob/officeflow/internal/services/delivery"
	"github.com/ternarybob/officeflow/internal/services/documents"
	"github.com/ternarybob/officeflow/internal/services/llm"
	"github.com/ternarybob/officeflow/internal/services/mailer"
	"github.com/ternarybob/officeflow/internal/services/pdf"
	"github.com/ternarybob/officeflow/internal/services/reminders"
	"github.com/ternarybob/officeflow/internal/services/scheduler"
	"github.com/ternarybob/officeflow/internal/services/slack"
	"github.com/ternarybob/officeflow/internal/services/summary"
	"github.com/ternarybob/officeflow/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Log ingestion and live stream
	LogService *logs.Service
	LogStream  *handlers.LogStreamHandler

	// Reminder delivery
	SlackClient      *slack.Client
	Mailer           *mailer.Service
	Delivery         *delivery.Service
	ReminderService  *reminders.Service
	SchedulerService *scheduler.Service

	// PDF rendering and templates
	PDFService       *pdf.Service
	Extractor        *pdf.Extractor
	TemplateRegistry *documents.Registry
	DocumentService  *documents.Service

	// AI summarization
	LLMService     interfaces.LLMService
	SummaryService *summary.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	LogsHandler     *handlers.LogsHandler
	ReminderHandler *handlers.ReminderHandler
	DocumentHandler *handlers.DocumentHandler
	AIHandler       *handlers.AIHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Str("llm", app.LLMService.Name()).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Int("templates", len(app.TemplateRegistry.List())).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (json files or badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", a.Config.Storage.Type).
		Str("data_dir", a.Config.Storage.DataDir).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes business services in dependency order:
// log stream before logs, transports before delivery, delivery before reminders.
func (a *App) initServices() error {
	a.LogStream = handlers.NewLogStreamHandler(a.Logger)
	a.LogService = logs.NewService(a.StorageManager.LogStorage(), time.Now, a.Logger)
	a.LogService.SetPublisher(a.LogStream)

	a.SlackClient = slack.NewClient(
		slack.WithTimeout(common.ParseDurationOr(a.Config.Slack.Timeout, slack.DefaultTimeout)),
		slack.WithRateLimit(a.Config.Slack.RatePerSecond),
		slack.WithLogger(a.Logger),
	)
	a.Mailer = mailer.NewService(&a.Config.SMTP, a.Logger)
	if !a.Mailer.IsConfigured() {
		a.Logger.Warn().Msg("SMTP credentials not configured, email reminders will fail")
	}
	a.Delivery = delivery.NewService(a.SlackClient, a.Mailer, a.Logger)

	a.ReminderService = reminders.NewService(a.StorageManager.ReminderStorage(), a.Delivery, time.Now, a.Logger)
	a.SchedulerService = scheduler.NewService(
		a.ReminderService,
		a.Config.Scheduler.Schedule,
		common.ParseDurationOr(a.Config.Scheduler.DispatchTimeout, 2*time.Minute),
		a.Logger,
	)

	a.PDFService = pdf.NewService(a.Config.Documents.FontDir, a.Logger)
	a.Extractor = pdf.NewExtractor(a.Logger)

	a.TemplateRegistry = documents.NewRegistry()
	if a.Config.Documents.TemplatesDir != "" {
		loaded, err := a.TemplateRegistry.LoadDir(a.Config.Documents.TemplatesDir, a.Logger)
		if err != nil {
			a.Logger.Warn().Err(err).Str("dir", a.Config.Documents.TemplatesDir).Msg("Failed to load custom templates")
		} else if loaded > 0 {
			a.Logger.Info().Int("count", loaded).Msg("Custom templates loaded")
		}
	}
	a.DocumentService = documents.NewService(
		a.PDFService,
		a.StorageManager.DocumentHistoryStorage(),
		a.TemplateRegistry,
		&a.Config.Documents,
		a.Logger,
	)

	llmService, err := llm.NewLLMService(context.Background(), a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService
	if llm.IsTestMode(llmService) {
		a.Logger.Warn().Msg("AI summarizer running in test mode, responses are canned")
	}

	a.SummaryService = summary.NewService(
		a.LLMService,
		a.Extractor,
		a.PDFService,
		a.LogService,
		a.Config.LLM.AutoTestModeOnQuota,
		a.Logger,
	)

	return nil
}

// initHandlers wires the HTTP handlers to their services
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.LogsHandler = handlers.NewLogsHandler(a.LogService, a.Logger)
	a.ReminderHandler = handlers.NewReminderHandler(a.ReminderService, a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, a.Logger)
	a.AIHandler = handlers.NewAIHandler(a.SummaryService, a.Logger)
}

// StartScheduler begins dispatching due reminders when the scheduler is enabled
func (a *App) StartScheduler(ctx context.Context) error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Reminder scheduler disabled")
		return nil
	}
	if err := a.SchedulerService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.LogStream != nil {
		a.LogStream.Close()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
