package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewLogID generates a log entry ID: millisecond timestamp plus a short random suffix.
// IDs created later sort after earlier ones at millisecond granularity.
func NewLogID() string {
	return newTimeID()
}

// NewReminderID generates a reminder ID in the same time+random format as log IDs
func NewReminderID() string {
	return newTimeID()
}

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

func newTimeID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
