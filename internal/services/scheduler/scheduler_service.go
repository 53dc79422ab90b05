package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/common"
	"github.com/ternarybob/officeflow/internal/models"
)

// ReminderDispatcher is the slice of the reminder service the scheduler drives
type ReminderDispatcher interface {
	GetPendingReminders(ctx context.Context, now time.Time) ([]*models.Reminder, error)
	Dispatch(ctx context.Context, reminder *models.Reminder) (models.DeliveryResult, error)
	MarkReminderSent(ctx context.Context, id string, success bool, now time.Time) (*models.Reminder, error)
}

// TickResult summarises one scheduler pass
type TickResult struct {
	Due       int
	Succeeded int
	Failed    int
	Skipped   bool
}

// Service polls for due reminders on a cron schedule and dispatches them concurrently
type Service struct {
	dispatcher      ReminderDispatcher
	schedule        string
	dispatchTimeout time.Duration
	now             func() time.Time
	cron            *cron.Cron
	logger          arbor.ILogger

	mu           sync.Mutex // Protects isProcessing and running
	isProcessing bool
	running      bool
	cancel       context.CancelFunc
	entryID      cron.EntryID
}

// NewService creates a new scheduler service
func NewService(dispatcher ReminderDispatcher, schedule string, dispatchTimeout time.Duration, logger arbor.ILogger) *Service {
	if schedule == "" {
		schedule = common.DefaultSchedule
	}
	return &Service{
		dispatcher:      dispatcher,
		schedule:        schedule,
		dispatchTimeout: dispatchTimeout,
		now:             time.Now,
		cron:            cron.New(cron.WithSeconds()),
		logger:          logger,
	}
}

// Start registers the tick and begins the cron loop
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() { s.runScheduledTask(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cancel = cancel
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Str("dispatch_timeout", s.dispatchTimeout.String()).
		Msg("Reminder scheduler started")

	return nil
}

// Stop halts the cron loop and waits for an in-flight tick to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	entryID := s.entryID
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	// A later Start registers its own entry
	s.cron.Remove(entryID)
	if cancel != nil {
		cancel()
	}

	s.logger.Info().Msg("Reminder scheduler stopped")
	return nil
}

// IsRunning reports whether the cron loop is active
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// runScheduledTask is the cron callback; overlapping ticks are skipped
func (s *Service) runScheduledTask(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in reminder scheduler tick")
		}
	}()

	result := s.RunOnce(ctx)
	if result.Skipped || result.Due == 0 {
		return
	}

	s.logger.Info().
		Int("due", result.Due).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Reminder tick complete")
}

// RunOnce performs a single pass: fetch due reminders and dispatch them concurrently.
// A failing or panicking dispatch affects only its own reminder.
func (s *Service) RunOnce(ctx context.Context) TickResult {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Previous reminder tick still running, skipping")
		return TickResult{Skipped: true}
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	due, err := s.dispatcher.GetPendingReminders(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load pending reminders")
		return TickResult{}
	}
	if len(due) == 0 {
		return TickResult{}
	}

	var (
		wg        sync.WaitGroup
		countMu   sync.Mutex
		succeeded int
		failed    int
	)

	record := func(ok bool) {
		countMu.Lock()
		defer countMu.Unlock()
		if ok {
			succeeded++
		} else {
			failed++
		}
	}

	for _, reminder := range due {
		reminder := reminder
		common.SafeGoGroup(&wg, s.logger, "reminder-dispatch-"+reminder.ID, func() {
			record(s.dispatchOne(ctx, reminder))
		}, func(recovered interface{}) {
			s.markFailed(ctx, reminder, fmt.Errorf("panic: %v", recovered))
			record(false)
		})
	}

	wg.Wait()

	return TickResult{Due: len(due), Succeeded: succeeded, Failed: failed}
}

func (s *Service) dispatchOne(ctx context.Context, reminder *models.Reminder) bool {
	dispatchCtx := ctx
	if s.dispatchTimeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, s.dispatchTimeout)
		defer cancel()
	}

	result, err := s.dispatcher.Dispatch(dispatchCtx, reminder)
	if err != nil {
		s.logger.Error().Err(err).Str("id", reminder.ID).Msg("Failed to record reminder outcome")
		return false
	}
	return result.Success
}

// markFailed records a failure for a dispatch that never produced a result
func (s *Service) markFailed(ctx context.Context, reminder *models.Reminder, cause error) {
	if _, err := s.dispatcher.MarkReminderSent(ctx, reminder.ID, false, s.now()); err != nil {
		s.logger.Error().Err(err).Str("id", reminder.ID).Msg("Failed to mark reminder as failed")
		return
	}
	s.logger.Warn().Err(cause).Str("id", reminder.ID).Msg("Reminder dispatch aborted, marked failed")
}
