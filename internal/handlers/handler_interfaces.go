package handlers

import (
	"context"

	"github.com/ternarybob/officeflow/internal/logs"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/services/documents"
	"github.com/ternarybob/officeflow/internal/services/reminders"
	"github.com/ternarybob/officeflow/internal/services/summary"
)

// LogService is the ingestion and analytics surface used by LogsHandler
type LogService interface {
	Collect(ctx context.Context, inputs []logs.CollectInput) (int, error)
	Upload(ctx context.Context, fileName string, content []byte) (*models.UploadResult, error)
	List(ctx context.Context, filter models.LogFilter, limit, offset int) (*models.LogPage, error)
	Stats(ctx context.Context, filter models.LogFilter) (*models.LogStats, error)
	ExportCSV(ctx context.Context, filter models.LogFilter) ([]byte, error)
	Clear(ctx context.Context) error
}

// ReminderService is the reminder surface used by ReminderHandler
type ReminderService interface {
	Create(ctx context.Context, req *reminders.CreateReminderRequest) (*models.Reminder, error)
	List(ctx context.Context) ([]*models.Reminder, error)
	Get(ctx context.Context, id string) (*models.Reminder, error)
	Update(ctx context.Context, id string, req *reminders.UpdateReminderRequest) (*models.Reminder, error)
	Delete(ctx context.Context, id string) error
	SendNow(ctx context.Context, id string) (models.DeliveryResult, error)
	SendAdhoc(ctx context.Context, req *reminders.SendRequest) (models.DeliveryResult, error)
}

// DocumentService is the template PDF surface used by DocumentHandler
type DocumentService interface {
	Generate(ctx context.Context, req *documents.GenerateRequest) (*models.DocumentRecord, error)
	History(ctx context.Context, templateID string) ([]*models.DocumentRecord, error)
	OpenPDF(ctx context.Context, id string) (*models.DocumentRecord, []byte, error)
	Templates() []*documents.Template
}

// SummaryService is the AI surface used by AIHandler
type SummaryService interface {
	Summarize(ctx context.Context, fileName string, data []byte, summaryType string) (*summary.Result, error)
	GenerateReport(ctx context.Context, startDate, endDate string) (*summary.Report, error)
	SavePDF(summary, title string) ([]byte, error)
}
