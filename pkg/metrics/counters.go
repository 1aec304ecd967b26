package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"digital.vasic.softassert/pkg/assertion"
)

// Counters implements CheckMetrics with in-memory counters.
// Exporting them is left to the host application.
type Counters struct {
	mu        sync.Mutex
	checks    map[string]int
	deferred  int
	sessions  map[bool]int
	fileRuns  map[string]int
	durations map[string][]time.Duration
}

// NewCounters creates an empty Counters instance.
func NewCounters() *Counters {
	return &Counters{
		checks:    make(map[string]int),
		sessions:  make(map[bool]int),
		fileRuns:  make(map[string]int),
		durations: make(map[string][]time.Duration),
	}
}

func status(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func (m *Counters) RecordCheck(kind assertion.Kind, passed, deferred bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[string(kind)+":"+status(passed)]++
	if deferred {
		m.deferred++
	}
}

func (m *Counters) RecordSession(passed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[passed]++
}

func (m *Counters) RecordFileRun(name string, passed bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileRuns[name+":"+status(passed)]++
	m.durations[name] = append(m.durations[name], duration)
}

// CheckCount returns the count for a kind+result combination.
func (m *Counters) CheckCount(kind assertion.Kind, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks[string(kind)+":"+status(passed)]
}

// DeferredCount returns how many checks ran inside soft sessions.
func (m *Counters) DeferredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deferred
}

// SessionCount returns the number of finalized sessions with
// the given result.
func (m *Counters) SessionCount(passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[passed]
}

// FileRunCount returns the count for a file+result combination.
func (m *Counters) FileRunCount(name string, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fileRuns[name+":"+status(passed)]
}

// Durations returns a copy of the recorded run durations of a file.
func (m *Counters) Durations(name string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations[name]))
	copy(out, m.durations[name])
	return out
}

// Totals returns passed and failed check counts across all kinds.
func (m *Counters) Totals() (passed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, n := range m.checks {
		if strings.HasSuffix(key, ":passed") {
			passed += n
		} else {
			failed += n
		}
	}
	return passed, failed
}

// Kinds returns every kind that has been recorded, sorted.
func (m *Counters) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	for key := range m.checks {
		seen[key[:strings.LastIndex(key, ":")]] = true
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
