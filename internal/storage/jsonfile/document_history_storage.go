package jsonfile

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// DocumentHistoryStorage implements interfaces.DocumentHistoryStorage over documents-history.json.
// Records are kept newest first.
type DocumentHistoryStorage struct {
	file   *jsonFile[*models.DocumentRecord]
	logger arbor.ILogger
}

// NewDocumentHistoryStorage creates a history store backed by path
func NewDocumentHistoryStorage(path string, logger arbor.ILogger) *DocumentHistoryStorage {
	return &DocumentHistoryStorage{
		file:   newJSONFile[*models.DocumentRecord](path, logger),
		logger: logger,
	}
}

var _ interfaces.DocumentHistoryStorage = (*DocumentHistoryStorage)(nil)

func (s *DocumentHistoryStorage) AddRecord(ctx context.Context, record *models.DocumentRecord) error {
	return s.file.update(func(items []*models.DocumentRecord) ([]*models.DocumentRecord, error) {
		return append([]*models.DocumentRecord{record}, items...), nil
	})
}

func (s *DocumentHistoryStorage) UpdateRecord(ctx context.Context, record *models.DocumentRecord) error {
	return s.file.update(func(items []*models.DocumentRecord) ([]*models.DocumentRecord, error) {
		for i, existing := range items {
			if existing != nil && existing.ID == record.ID {
				items[i] = record
				return items, nil
			}
		}
		return nil, interfaces.ErrDocumentNotFound
	})
}

func (s *DocumentHistoryStorage) GetRecord(ctx context.Context, id string) (*models.DocumentRecord, error) {
	for _, r := range s.file.read() {
		if r != nil && r.ID == id {
			return r, nil
		}
	}
	return nil, interfaces.ErrDocumentNotFound
}

func (s *DocumentHistoryStorage) ListRecords(ctx context.Context, templateID string) ([]*models.DocumentRecord, error) {
	items := s.file.read()
	result := make([]*models.DocumentRecord, 0, len(items))
	for _, r := range items {
		if r == nil {
			continue
		}
		if templateID != "" && r.TemplateID != templateID {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}
