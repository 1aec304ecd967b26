package monitor

import (
	"sync"
	"time"

	"digital.vasic.softassert/pkg/assertion"
)

// EventCollector captures check events and timing data. It is
// an assertion.Observer, so it can be attached to a Checker
// with assertion.WithObserver.
type EventCollector struct {
	mu       sync.RWMutex
	events   []CheckEvent
	handlers []func(CheckEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Checks         int           `json:"checks"`
	Passed         int           `json:"passed"`
	Failed         int           `json:"failed"`
	Deferred       int           `json:"deferred"`
	Sessions       int           `json:"sessions"`
	FailedSessions int           `json:"failed_sessions"`
	Files          int           `json:"files"`
	FailedFiles    int           `json:"failed_files"`
	StartTime      time.Time     `json:"start_time"`
	Duration       time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]CheckEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(CheckEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event CheckEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventCheck:
		c.stats.Checks++
		if event.Passed {
			c.stats.Passed++
		} else {
			c.stats.Failed++
		}
		if event.Deferred {
			c.stats.Deferred++
		}
	case EventSession:
		c.stats.Sessions++
		if !event.Passed {
			c.stats.FailedSessions++
		}
	case EventFileCompleted:
		c.stats.Files++
	case EventFileFailed:
		c.stats.Files++
		c.stats.FailedFiles++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(CheckEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// ObserveCheck implements assertion.Observer.
func (c *EventCollector) ObserveCheck(o assertion.Outcome) {
	typ := EventCheck
	if o.Kind == assertion.KindAssertAll {
		typ = EventSession
	}
	c.Emit(CheckEvent{
		Type:     typ,
		Kind:     o.Kind,
		Passed:   o.Passed,
		Deferred: o.Deferred,
		Message:  o.Message,
	})
}

// EmitFileStarted emits a file started event.
func (c *EventCollector) EmitFileStarted(name string) {
	c.Emit(CheckEvent{
		Type:      EventFileStarted,
		File:      name,
		Timestamp: time.Now(),
	})
}

// EmitFileCompleted emits a file completed event.
func (c *EventCollector) EmitFileCompleted(name string, duration time.Duration) {
	c.Emit(CheckEvent{
		Type:      EventFileCompleted,
		File:      name,
		Passed:    true,
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// EmitFileFailed emits a file failed event.
func (c *EventCollector) EmitFileFailed(name, msg string, duration time.Duration) {
	c.Emit(CheckEvent{
		Type:      EventFileFailed,
		File:      name,
		Message:   msg,
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []CheckEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CheckEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
