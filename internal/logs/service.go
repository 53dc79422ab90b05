package logs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Service implements log ingestion, listing, statistics and export over a LogStorage
type Service struct {
	storage   interfaces.LogStorage
	publisher interfaces.LogPublisher
	now       func() time.Time
	logger    arbor.ILogger
}

// NewService creates a log service. A nil clock uses time.Now.
func NewService(storage interfaces.LogStorage, clock func() time.Time, logger arbor.ILogger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		storage: storage,
		now:     clock,
		logger:  logger,
	}
}

// SetPublisher attaches a live-tail publisher; nil disables publishing
func (s *Service) SetPublisher(p interfaces.LogPublisher) {
	s.publisher = p
}

// Collect stores pre-structured records. Records without a message are dropped.
// Returns the number saved.
func (s *Service) Collect(ctx context.Context, inputs []CollectInput) (int, error) {
	entries := make([]*models.LogEntry, 0, len(inputs))
	missing := make([]bool, 0, len(inputs))

	for _, in := range inputs {
		entry, ok := in.Normalize()
		if !ok {
			continue
		}
		entries = append(entries, entry)
		missing = append(missing, entry.Timestamp.IsZero())
	}

	if len(entries) == 0 {
		s.logger.Debug().Int("received", len(inputs)).Msg("No log records with a message to collect")
		return 0, nil
	}

	AssignMissingTimestamps(entries, missing, s.now())

	if err := s.append(ctx, entries); err != nil {
		return 0, err
	}

	s.logger.Info().
		Int("received", len(inputs)).
		Int("saved", len(entries)).
		Msg("Collected log records")

	return len(entries), nil
}

// Upload parses raw log text line by line and stores every parsed entry.
// Returns ErrNoParsableLines when nothing parses.
func (s *Service) Upload(ctx context.Context, fileName string, content []byte) (*models.UploadResult, error) {
	lines := SplitLines(string(content))
	entries := parseLines(lines, s.now())
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, interfaces.ErrNoParsableLines)
	}

	for _, e := range entries {
		if e.File == "" {
			e.File = fileName
		}
	}

	if err := s.append(ctx, entries); err != nil {
		return nil, err
	}

	result := &models.UploadResult{
		Success:    true,
		TotalLines: len(lines),
		SavedCount: len(entries),
		Counts: map[models.LogType]int{
			models.LogTypeError:   0,
			models.LogTypeWarning: 0,
			models.LogTypeInfo:    0,
			models.LogTypeDebug:   0,
		},
	}
	for _, e := range entries {
		result.Counts[e.Type]++
	}

	s.logger.Info().
		Str("file", fileName).
		Int("saved", result.SavedCount).
		Int("errors", result.Counts[models.LogTypeError]).
		Int("warnings", result.Counts[models.LogTypeWarning]).
		Msg("Uploaded log file")

	return result, nil
}

// List returns one page of matching entries, newest first.
// limit <= 0 uses DefaultListLimit; negative offset is treated as 0.
func (s *Service) List(ctx context.Context, filter models.LogFilter, limit, offset int) (*models.LogPage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.storage.ListLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	total := len(entries)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]models.LogListItem, 0, end-start)
	for _, e := range entries[start:end] {
		local := e.Timestamp.Local()
		items = append(items, models.LogListItem{
			LogEntry: e,
			Date:     local.Format(dateLayout),
			Time:     local.Format("15:04:05"),
		})
	}

	return &models.LogPage{
		Logs:    items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}, nil
}

// Stats computes aggregate statistics over the filtered set
func (s *Service) Stats(ctx context.Context, filter models.LogFilter) (*models.LogStats, error) {
	entries, err := s.storage.ListLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for stats: %w", err)
	}
	return ComputeStats(entries, s.now()), nil
}

// ExportCSV renders the filtered set as CSV. Returns ErrNoLogsToExport when empty.
func (s *Service) ExportCSV(ctx context.Context, filter models.LogFilter) ([]byte, error) {
	entries, err := s.storage.ListLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for export: %w", err)
	}
	if len(entries) == 0 {
		return nil, interfaces.ErrNoLogsToExport
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("rows", len(entries)).Msg("Exported logs to CSV")
	return buf.Bytes(), nil
}

// Clear removes every stored entry
func (s *Service) Clear(ctx context.Context) error {
	if err := s.storage.ClearLogs(ctx); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	s.logger.Warn().Msg("Log store cleared")
	return nil
}

func (s *Service) append(ctx context.Context, entries []*models.LogEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			e.ID = common.NewLogID()
		}
	}

	if err := s.storage.AppendLogs(ctx, entries); err != nil {
		return fmt.Errorf("failed to store %d log entries: %w", len(entries), err)
	}

	if s.publisher != nil {
		published := entries
		common.SafeGo(s.logger, "publishLogs", func() {
			s.publisher.PublishLogs(published)
		})
	}
	return nil
}
