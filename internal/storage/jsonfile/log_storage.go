package jsonfile

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// LogStorage implements interfaces.LogStorage over logs.json
type LogStorage struct {
	file   *jsonFile[*models.LogEntry]
	logger arbor.ILogger
}

// NewLogStorage creates a log store backed by path
func NewLogStorage(path string, logger arbor.ILogger) *LogStorage {
	return &LogStorage{
		file:   newJSONFile[*models.LogEntry](path, logger),
		logger: logger,
	}
}

var _ interfaces.LogStorage = (*LogStorage)(nil)

func (s *LogStorage) AppendLogs(ctx context.Context, entries []*models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.file.update(func(items []*models.LogEntry) ([]*models.LogEntry, error) {
		return append(items, entries...), nil
	})
}

func (s *LogStorage) ListLogs(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, error) {
	all := s.file.read()

	matched := make([]*models.LogEntry, 0, len(all))
	for _, e := range all {
		if e != nil && filter.Matches(e) {
			matched = append(matched, e)
		}
	}

	// Newest first; insertion order breaks ties
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

func (s *LogStorage) ClearLogs(ctx context.Context) error {
	return s.file.update(func([]*models.LogEntry) ([]*models.LogEntry, error) {
		return []*models.LogEntry{}, nil
	})
}
