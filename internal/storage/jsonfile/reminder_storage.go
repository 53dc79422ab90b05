package jsonfile

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// ReminderStorage implements interfaces.ReminderStorage over reminders.json
type ReminderStorage struct {
	file   *jsonFile[*models.Reminder]
	logger arbor.ILogger
}

// NewReminderStorage creates a reminder store backed by path
func NewReminderStorage(path string, logger arbor.ILogger) *ReminderStorage {
	return &ReminderStorage{
		file:   newJSONFile[*models.Reminder](path, logger),
		logger: logger,
	}
}

var _ interfaces.ReminderStorage = (*ReminderStorage)(nil)

func (s *ReminderStorage) SaveReminder(ctx context.Context, r *models.Reminder) error {
	return s.file.update(func(items []*models.Reminder) ([]*models.Reminder, error) {
		for i, existing := range items {
			if existing != nil && existing.ID == r.ID {
				items[i] = r
				return items, nil
			}
		}
		return append(items, r), nil
	})
}

func (s *ReminderStorage) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	for _, r := range s.file.read() {
		if r != nil && r.ID == id {
			return r, nil
		}
	}
	return nil, interfaces.ErrReminderNotFound
}

func (s *ReminderStorage) ListReminders(ctx context.Context) ([]*models.Reminder, error) {
	items := s.file.read()
	result := make([]*models.Reminder, 0, len(items))
	for _, r := range items {
		if r != nil {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *ReminderStorage) DeleteReminder(ctx context.Context, id string) error {
	return s.file.update(func(items []*models.Reminder) ([]*models.Reminder, error) {
		for i, r := range items {
			if r != nil && r.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, interfaces.ErrReminderNotFound
	})
}
