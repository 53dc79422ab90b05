package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
)

// Service owns reminder CRUD and the pending -> sent/failed state machine
type Service struct {
	storage  interfaces.ReminderStorage
	delivery interfaces.DeliveryService
	validate *validator.Validate
	now      func() time.Time
	logger   arbor.ILogger
}

// NewService creates a reminder service. A nil clock uses time.Now.
func NewService(storage interfaces.ReminderStorage, delivery interfaces.DeliveryService, clock func() time.Time, logger arbor.ILogger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		storage:  storage,
		delivery: delivery,
		validate: newValidator(),
		now:      clock,
		logger:   logger,
	}
}

// Create validates and stores a new reminder in pending state
func (s *Service) Create(ctx context.Context, req *CreateReminderRequest) (*models.Reminder, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	scheduledAt, err := ParseScheduledAt(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	repeat := models.ReminderRepeat(req.Repeat)
	if repeat == "" {
		repeat = models.RepeatNone
	}

	now := s.now()
	reminder := &models.Reminder{
		ID:           common.NewReminderID(),
		Title:        strings.TrimSpace(req.Title),
		Message:      req.Message,
		ScheduledAt:  scheduledAt,
		Channel:      models.ReminderChannel(req.Channel),
		Repeat:       repeat,
		SlackWebhook: strings.TrimSpace(req.SlackWebhook),
		Email:        strings.TrimSpace(req.Email),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}

	s.logger.Info().
		Str("id", reminder.ID).
		Str("channel", string(reminder.Channel)).
		Str("repeat", string(reminder.Repeat)).
		Str("scheduled_at", reminder.ScheduledAt.Format(time.RFC3339)).
		Msg("Reminder created")

	return reminder, nil
}

// List returns every reminder in creation order
func (s *Service) List(ctx context.Context) ([]*models.Reminder, error) {
	return s.storage.ListReminders(ctx)
}

// Get returns a single reminder
func (s *Service) Get(ctx context.Context, id string) (*models.Reminder, error) {
	return s.storage.GetReminder(ctx, id)
}

// Update applies a partial update and re-validates the merged reminder.
// Changing scheduledAt on a failed or sent one-off reminder re-arms it.
func (s *Service) Update(ctx context.Context, id string, req *UpdateReminderRequest) (*models.Reminder, error) {
	reminder, err := s.storage.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		reminder.Title = strings.TrimSpace(*req.Title)
	}
	if req.Message != nil {
		reminder.Message = *req.Message
	}
	if req.Channel != nil {
		reminder.Channel = models.ReminderChannel(*req.Channel)
	}
	if req.Repeat != nil {
		reminder.Repeat = models.ReminderRepeat(*req.Repeat)
		if reminder.Repeat == "" {
			reminder.Repeat = models.RepeatNone
		}
	}
	if req.SlackWebhook != nil {
		reminder.SlackWebhook = strings.TrimSpace(*req.SlackWebhook)
	}
	if req.Email != nil {
		reminder.Email = strings.TrimSpace(*req.Email)
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := ParseScheduledAt(*req.ScheduledAt)
		if err != nil {
			return nil, err
		}
		reminder.ScheduledAt = scheduledAt
		reminder.Status = models.StatusPending
	}
	if req.Status != nil {
		status := models.ReminderStatus(*req.Status)
		switch status {
		case models.StatusPending, models.StatusSent, models.StatusFailed:
			reminder.Status = status
		default:
			return nil, interfaces.NewValidationErrorf("invalid reminder", "status must be one of: pending sent failed")
		}
	}

	if err := s.validate.Struct(reminder); err != nil {
		return nil, validationError(err)
	}
	if err := checkChannelTargets(reminder); err != nil {
		return nil, err
	}

	reminder.UpdatedAt = s.now()
	if err := s.storage.SaveReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}

	s.logger.Info().Str("id", reminder.ID).Str("status", string(reminder.Status)).Msg("Reminder updated")
	return reminder, nil
}

// Delete removes a reminder
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteReminder(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Reminder deleted")
	return nil
}

// GetPendingReminders returns every reminder due at now
func (s *Service) GetPendingReminders(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	all, err := s.storage.ListReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	due := make([]*models.Reminder, 0)
	for _, r := range all {
		if IsDue(r, now) {
			due = append(due, r)
		}
	}
	return due, nil
}

// MarkReminderSent records a delivery outcome against the stored reminder
func (s *Service) MarkReminderSent(ctx context.Context, id string, success bool, now time.Time) (*models.Reminder, error) {
	reminder, err := s.storage.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}

	ApplyDeliveryOutcome(reminder, success, now)

	if err := s.storage.SaveReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to mark reminder %s: %w", id, err)
	}
	return reminder, nil
}

// Dispatch delivers a reminder and records the outcome
func (s *Service) Dispatch(ctx context.Context, reminder *models.Reminder) (models.DeliveryResult, error) {
	result := s.delivery.Deliver(ctx, reminder)

	if _, err := s.MarkReminderSent(ctx, reminder.ID, result.Success, s.now()); err != nil {
		return result, err
	}

	event := s.logger.Info()
	if !result.Success {
		event = s.logger.Warn()
	}
	event.
		Str("id", reminder.ID).
		Str("title", reminder.Title).
		Bool("success", result.Success).
		Msg("Reminder dispatched")

	return result, nil
}

// SendNow dispatches a stored reminder immediately regardless of its schedule
func (s *Service) SendNow(ctx context.Context, id string) (models.DeliveryResult, error) {
	reminder, err := s.storage.GetReminder(ctx, id)
	if err != nil {
		return models.DeliveryResult{}, err
	}
	return s.Dispatch(ctx, reminder)
}

// SendAdhoc delivers a one-off notification without persisting it
func (s *Service) SendAdhoc(ctx context.Context, req *SendRequest) (models.DeliveryResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.DeliveryResult{}, validationError(err)
	}

	when := s.now()
	if req.ScheduledAt != "" {
		parsed, err := ParseScheduledAt(req.ScheduledAt)
		if err != nil {
			return models.DeliveryResult{}, err
		}
		when = parsed
	}

	reminder := &models.Reminder{
		Title:        req.Title,
		Message:      req.Message,
		ScheduledAt:  when,
		Channel:      models.ReminderChannel(req.Channel),
		Repeat:       models.RepeatNone,
		SlackWebhook: strings.TrimSpace(req.SlackWebhook),
		Email:        strings.TrimSpace(req.Email),
		Status:       models.StatusPending,
	}

	result := s.delivery.Deliver(ctx, reminder)
	s.logger.Info().
		Str("channel", req.Channel).
		Bool("success", result.Success).
		Msg("Ad-hoc notification sent")
	return result, nil
}
