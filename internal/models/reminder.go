package models

import "time"

// ReminderChannel selects the delivery transport(s)
type ReminderChannel string

const (
	ChannelSlack ReminderChannel = "slack"
	ChannelEmail ReminderChannel = "email"
	ChannelBoth  ReminderChannel = "both"
)

// ReminderRepeat is the repeat cadence
type ReminderRepeat string

const (
	RepeatNone    ReminderRepeat = "none"
	RepeatDaily   ReminderRepeat = "daily"
	RepeatWeekly  ReminderRepeat = "weekly"
	RepeatMonthly ReminderRepeat = "monthly"
)

// ReminderStatus is the delivery state.
//
//	pending -> sent
//	pending -> failed (terminal, never polled again)
//	sent    -> pending (repeating reminders, rescheduled on success)
type ReminderStatus string

const (
	StatusPending ReminderStatus = "pending"
	StatusSent    ReminderStatus = "sent"
	StatusFailed  ReminderStatus = "failed"
)

// Reminder is a scheduled Slack and/or email notification
type Reminder struct {
	ID           string          `json:"id"`
	Title        string          `json:"title" validate:"required"`
	Message      string          `json:"message" validate:"required"`
	ScheduledAt  time.Time       `json:"scheduledAt"`
	Channel      ReminderChannel `json:"channel" validate:"required,oneof=slack email both"`
	Repeat       ReminderRepeat  `json:"repeat" validate:"oneof=none daily weekly monthly"`
	SlackWebhook string          `json:"slackWebhook,omitempty" validate:"omitempty,url"`
	Email        string          `json:"email,omitempty" validate:"omitempty,email"`
	Status       ReminderStatus  `json:"status" badgerhold:"index"`
	LastSentAt   *time.Time      `json:"lastSentAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UsesSlack reports whether the reminder is delivered over Slack
func (r *Reminder) UsesSlack() bool {
	return r.Channel == ChannelSlack || r.Channel == ChannelBoth
}

// UsesEmail reports whether the reminder is delivered by email
func (r *Reminder) UsesEmail() bool {
	return r.Channel == ChannelEmail || r.Channel == ChannelBoth
}

// ChannelResult is the outcome of one transport
type ChannelResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DeliveryResult aggregates channel outcomes. Success means at least one requested channel succeeded.
type DeliveryResult struct {
	Success bool                     `json:"success"`
	Results map[string]ChannelResult `json:"results"`
}
