package interfaces

import "github.com/ternarybob/officeflow/internal/models"

// LogPublisher receives every batch of newly ingested entries (live tail)
type LogPublisher interface {
	PublishLogs(entries []*models.LogEntry)
}
