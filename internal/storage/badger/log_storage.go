package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// LogStorage implements the LogStorage interface for Badger
type LogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewLogStorage creates a new LogStorage instance
func NewLogStorage(db *BadgerDB, logger arbor.ILogger) interfaces.LogStorage {
	return &LogStorage{
		db:     db,
		logger: logger,
	}
}

func (s *LogStorage) AppendLogs(ctx context.Context, entries []*models.LogEntry) error {
	for _, e := range entries {
		if err := s.db.Store().Insert(e.ID, e); err != nil {
			return fmt.Errorf("failed to insert log %s: %w", e.ID, err)
		}
	}
	return nil
}

func (s *LogStorage) ListLogs(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, error) {
	var entries []models.LogEntry

	query := badgerhold.Where("ID").Ne("")
	if filter.Type != "" {
		query = badgerhold.Where("Type").Eq(filter.Type).Index("Type")
	}

	if err := s.db.Store().Find(&entries, query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to query logs, returning empty result")
		return []*models.LogEntry{}, nil
	}

	matched := make([]*models.LogEntry, 0, len(entries))
	for i := range entries {
		if filter.Matches(&entries[i]) {
			matched = append(matched, &entries[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

func (s *LogStorage) ClearLogs(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&models.LogEntry{}, badgerhold.Where("ID").Ne("")); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	return nil
}
