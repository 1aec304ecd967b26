// Package monitor streams check outcomes to live dashboards.
package monitor

import (
	"time"

	"digital.vasic.softassert/pkg/assertion"
)

// EventType represents the type of monitor event.
type EventType string

const (
	EventCheck         EventType = "check"
	EventSession       EventType = "session"
	EventFileStarted   EventType = "file_started"
	EventFileCompleted EventType = "file_completed"
	EventFileFailed    EventType = "file_failed"
)

// CheckEvent is one entry of the live outcome stream.
type CheckEvent struct {
	Type      EventType      `json:"type"`
	Kind      assertion.Kind `json:"kind,omitempty"`
	File      string         `json:"file,omitempty"`
	Passed    bool           `json:"passed"`
	Deferred  bool           `json:"deferred,omitempty"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
