// Package metrics counts check outcomes.
package metrics

import (
	"time"

	"digital.vasic.softassert/pkg/assertion"
)

// CheckMetrics defines the interface for recording check metrics.
type CheckMetrics interface {
	// RecordCheck records one check evaluation.
	RecordCheck(kind assertion.Kind, passed, deferred bool)
	// RecordSession records a finalized soft session.
	RecordSession(passed bool)
	// RecordFileRun records the evaluation of a check file.
	RecordFileRun(name string, passed bool, duration time.Duration)
}

// NoopMetrics is a no-op implementation of CheckMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordCheck(_ assertion.Kind, _, _ bool)        {}
func (NoopMetrics) RecordSession(_ bool)                           {}
func (NoopMetrics) RecordFileRun(_ string, _ bool, _ time.Duration) {}

// Observer adapts m to assertion.Observer. Finalized sessions
// are recorded with RecordSession, every other outcome with
// RecordCheck.
func Observer(m CheckMetrics) assertion.Observer {
	return assertion.ObserverFunc(func(o assertion.Outcome) {
		if o.Kind == assertion.KindAssertAll {
			m.RecordSession(o.Passed)
			return
		}
		m.RecordCheck(o.Kind, o.Passed, o.Deferred)
	})
}
