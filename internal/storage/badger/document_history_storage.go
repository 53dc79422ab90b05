package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentHistoryStorage implements the DocumentHistoryStorage interface for Badger
type DocumentHistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentHistoryStorage creates a new DocumentHistoryStorage instance
func NewDocumentHistoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentHistoryStorage {
	return &DocumentHistoryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentHistoryStorage) AddRecord(ctx context.Context, record *models.DocumentRecord) error {
	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to insert document record %s: %w", record.ID, err)
	}
	return nil
}

func (s *DocumentHistoryStorage) UpdateRecord(ctx context.Context, record *models.DocumentRecord) error {
	if err := s.db.Store().Update(record.ID, record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to update document record %s: %w", record.ID, err)
	}
	return nil
}

func (s *DocumentHistoryStorage) GetRecord(ctx context.Context, id string) (*models.DocumentRecord, error) {
	var record models.DocumentRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document record %s: %w", id, err)
	}
	return &record, nil
}

func (s *DocumentHistoryStorage) ListRecords(ctx context.Context, templateID string) ([]*models.DocumentRecord, error) {
	query := badgerhold.Where("ID").Ne("")
	if templateID != "" {
		query = badgerhold.Where("TemplateID").Eq(templateID).Index("TemplateID")
	}

	var records []models.DocumentRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to list document history, returning empty result")
		return []*models.DocumentRecord{}, nil
	}

	result := make([]*models.DocumentRecord, 0, len(records))
	for i := range records {
		result = append(result, &records[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
