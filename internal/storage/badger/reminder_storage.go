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

// ReminderStorage implements the ReminderStorage interface for Badger
type ReminderStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReminderStorage creates a new ReminderStorage instance
func NewReminderStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReminderStorage {
	return &ReminderStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ReminderStorage) SaveReminder(ctx context.Context, r *models.Reminder) error {
	if err := s.db.Store().Upsert(r.ID, r); err != nil {
		return fmt.Errorf("failed to save reminder %s: %w", r.ID, err)
	}
	return nil
}

func (s *ReminderStorage) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	var r models.Reminder
	if err := s.db.Store().Get(id, &r); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder %s: %w", id, err)
	}
	return &r, nil
}

func (s *ReminderStorage) ListReminders(ctx context.Context) ([]*models.Reminder, error) {
	var reminders []models.Reminder
	if err := s.db.Store().Find(&reminders, badgerhold.Where("ID").Ne("")); err != nil {
		s.logger.Error().Err(err).Msg("Failed to list reminders, returning empty result")
		return []*models.Reminder{}, nil
	}

	result := make([]*models.Reminder, 0, len(reminders))
	for i := range reminders {
		result = append(result, &reminders[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *ReminderStorage) DeleteReminder(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Reminder{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrReminderNotFound
		}
		return fmt.Errorf("failed to delete reminder %s: %w", id, err)
	}
	return nil
}
