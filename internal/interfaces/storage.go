package interfaces

import (
	"context"

	"github.com/ternarybob/officeflow/internal/models"
)

// LogStorage - interface for log entry persistence
type LogStorage interface {
	// AppendLogs stores entries in the given order. Entries are never updated afterwards.
	AppendLogs(ctx context.Context, entries []*models.LogEntry) error
	// ListLogs returns matching entries sorted newest first
	ListLogs(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, error)
	// ClearLogs removes every entry
	ClearLogs(ctx context.Context) error
}

// ReminderStorage - interface for reminder persistence
type ReminderStorage interface {
	// SaveReminder inserts or replaces the reminder with r.ID
	SaveReminder(ctx context.Context, r *models.Reminder) error
	// GetReminder returns ErrReminderNotFound when id is unknown
	GetReminder(ctx context.Context, id string) (*models.Reminder, error)
	// ListReminders returns every reminder in creation order
	ListReminders(ctx context.Context) ([]*models.Reminder, error)
	// DeleteReminder returns ErrReminderNotFound when id is unknown
	DeleteReminder(ctx context.Context, id string) error
}

// DocumentHistoryStorage - interface for generated document history
type DocumentHistoryStorage interface {
	// AddRecord prepends a record so listings are newest first
	AddRecord(ctx context.Context, record *models.DocumentRecord) error
	// UpdateRecord replaces an existing record
	UpdateRecord(ctx context.Context, record *models.DocumentRecord) error
	// GetRecord returns ErrDocumentNotFound when id is unknown
	GetRecord(ctx context.Context, id string) (*models.DocumentRecord, error)
	// ListRecords returns newest first, optionally restricted to one template id
	ListRecords(ctx context.Context, templateID string) ([]*models.DocumentRecord, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	LogStorage() LogStorage
	ReminderStorage() ReminderStorage
	DocumentHistoryStorage() DocumentHistoryStorage
	Close() error
}
