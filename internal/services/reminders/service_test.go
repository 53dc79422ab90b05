package reminders

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/interfaces"
	"github.com/ternarybob/officeflow/internal/models"
	"github.com/ternarybob/officeflow/internal/storage/jsonfile"
)

// MockDeliveryService is a mock implementation of interfaces.DeliveryService
type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) Deliver(ctx context.Context, reminder *models.Reminder) models.DeliveryResult {
	args := m.Called(ctx, reminder)
	return args.Get(0).(models.DeliveryResult)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, delivery interfaces.DeliveryService, clock *testClock) (*Service, interfaces.ReminderStorage) {
	t.Helper()
	storage := jsonfile.NewReminderStorage(filepath.Join(t.TempDir(), "reminders.json"), arbor.NewNoOpLogger())
	return NewService(storage, delivery, clock.Now, arbor.NewNoOpLogger()), storage
}

func TestCreate_Validation(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, &MockDeliveryService{}, clock)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateReminderRequest
	}{
		{"missing title", CreateReminderRequest{Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "slack", SlackWebhook: "https://hooks.slack.com/x"}},
		{"bad channel", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "sms"}},
		{"slack without webhook", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "slack"}},
		{"both without email", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "both", SlackWebhook: "https://hooks.slack.com/x"}},
		{"bad email", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "email", Email: "not-an-email"}},
		{"bad repeat", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "2025-01-01T10:00", Channel: "email", Email: "a@b.com", Repeat: "yearly"}},
		{"bad date", CreateReminderRequest{Title: "t", Message: "m", ScheduledAt: "tomorrow", Channel: "email", Email: "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Create(ctx, &req)
			require.Error(t, err)
			assert.ErrorIs(t, err, interfaces.ErrValidation)
		})
	}
}

func TestCreate_DefaultsAndPersistence(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc, storage := newTestService(t, &MockDeliveryService{}, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateReminderRequest{
		Title:       "Standup",
		Message:     "Daily standup in 5 minutes",
		ScheduledAt: "2025-01-01T10:00:00Z",
		Channel:     "email",
		Email:       "team@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RepeatNone, created.Repeat)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.LastSentAt)

	stored, err := storage.GetReminder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standup", stored.Title)
	assert.True(t, stored.ScheduledAt.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestUpdateAndDelete(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, &MockDeliveryService{}, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateReminderRequest{
		Title: "Invoice", Message: "Send invoices", ScheduledAt: "2025-01-02T09:00:00Z",
		Channel: "slack", SlackWebhook: "https://hooks.slack.com/services/T/B/X",
	})
	require.NoError(t, err)

	title := "Invoices due"
	updated, err := svc.Update(ctx, created.ID, &UpdateReminderRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Invoices due", updated.Title)

	channel := "both"
	_, err = svc.Update(ctx, created.ID, &UpdateReminderRequest{Channel: &channel})
	assert.ErrorIs(t, err, interfaces.ErrValidation, "switching to both without an email must fail")

	_, err = svc.Update(ctx, "missing", &UpdateReminderRequest{Title: &title})
	assert.ErrorIs(t, err, interfaces.ErrReminderNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), interfaces.ErrReminderNotFound)
}

func TestDispatch_OneOffEndToEnd(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	delivery := &MockDeliveryService{}
	svc, _ := newTestService(t, delivery, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateReminderRequest{
		Title: "Ship", Message: "Release today", ScheduledAt: "2025-01-01T09:00:30Z",
		Channel: "slack", SlackWebhook: "https://hooks.slack.com/services/T/B/X",
	})
	require.NoError(t, err)

	due, err := svc.GetPendingReminders(ctx, clock.now)
	require.NoError(t, err)
	assert.Empty(t, due, "not yet due")

	clock.now = clock.now.Add(time.Minute)
	due, err = svc.GetPendingReminders(ctx, clock.now)
	require.NoError(t, err)
	require.Len(t, due, 1)

	delivery.On("Deliver", mock.Anything, mock.MatchedBy(func(r *models.Reminder) bool {
		return r.ID == created.ID
	})).Return(models.DeliveryResult{
		Success: true,
		Results: map[string]models.ChannelResult{"slack": {Success: true}},
	}).Once()

	result, err := svc.Dispatch(ctx, due[0])
	require.NoError(t, err)
	assert.True(t, result.Success)

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, after.Status)
	require.NotNil(t, after.LastSentAt)
	assert.True(t, after.ScheduledAt.Equal(created.ScheduledAt))

	due, err = svc.GetPendingReminders(ctx, clock.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	delivery.AssertExpectations(t)
}

func TestDispatch_PartialAndTotalFailure(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	delivery := &MockDeliveryService{}
	svc, _ := newTestService(t, delivery, clock)
	ctx := context.Background()

	newBoth := func(title string) *models.Reminder {
		r, err := svc.Create(ctx, &CreateReminderRequest{
			Title: title, Message: "m", ScheduledAt: "2025-01-01T08:00:00Z", Channel: "both",
			SlackWebhook: "https://hooks.slack.com/services/T/B/X", Email: "ops@example.com",
		})
		require.NoError(t, err)
		return r
	}

	partial := newBoth("partial")
	total := newBoth("total")

	delivery.On("Deliver", mock.Anything, mock.MatchedBy(func(r *models.Reminder) bool { return r.ID == partial.ID })).
		Return(models.DeliveryResult{
			Success: true,
			Results: map[string]models.ChannelResult{
				"slack": {Success: true},
				"email": {Success: false, Error: "smtp down"},
			},
		})
	delivery.On("Deliver", mock.Anything, mock.MatchedBy(func(r *models.Reminder) bool { return r.ID == total.ID })).
		Return(models.DeliveryResult{
			Success: false,
			Results: map[string]models.ChannelResult{
				"slack": {Success: false, Error: "404"},
				"email": {Success: false, Error: "smtp down"},
			},
		})

	_, err := svc.Dispatch(ctx, partial)
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, total)
	require.NoError(t, err)

	gotPartial, err := svc.Get(ctx, partial.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, gotPartial.Status)

	gotTotal, err := svc.Get(ctx, total.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, gotTotal.Status)

	due, err := svc.GetPendingReminders(ctx, clock.now.Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due, "failed reminders are never polled again")
}

func TestMarkReminderSent_RepeatingAdvances(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, &MockDeliveryService{}, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateReminderRequest{
		Title: "Weekly report", Message: "Submit", ScheduledAt: "2025-01-06T09:00:00Z",
		Channel: "email", Email: "lead@example.com", Repeat: "weekly",
	})
	require.NoError(t, err)

	marked, err := svc.MarkReminderSent(ctx, created.ID, true, clock.now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, marked.Status)
	assert.True(t, marked.ScheduledAt.Equal(time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)))

	due, err := svc.GetPendingReminders(ctx, clock.now.Add(6*24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = svc.GetPendingReminders(ctx, clock.now.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestSendAdhoc_DoesNotPersist(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	delivery := &MockDeliveryService{}
	svc, storage := newTestService(t, delivery, clock)
	ctx := context.Background()

	delivery.On("Deliver", mock.Anything, mock.AnythingOfType("*models.Reminder")).
		Return(models.DeliveryResult{Success: true, Results: map[string]models.ChannelResult{"email": {Success: true}}}).Once()

	result, err := svc.SendAdhoc(ctx, &SendRequest{Channel: "email", Title: "Hi", Message: "Test", Email: "a@b.com"})
	require.NoError(t, err)
	assert.True(t, result.Success)

	all, err := storage.ListReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.SendAdhoc(ctx, &SendRequest{Channel: "fax", Title: "Hi", Message: "Test"})
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	delivery.AssertExpectations(t)
}

func TestParseScheduledAt(t *testing.T) {
	utc, err := ParseScheduledAt("2025-05-01T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, utc.Equal(time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)))

	local, err := ParseScheduledAt("2025-05-01T10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Local, local.Location())
	assert.Equal(t, 10, local.Hour())

	_, err = ParseScheduledAt("05/01/2025")
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}
