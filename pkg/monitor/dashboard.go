package monitor

import (
	"sort"
	"sync"
	"time"
)

// Dashboard keeps a live view of a check run.
type Dashboard struct {
	mu        sync.RWMutex
	runID     string
	startTime time.Time
	status    string
	files     map[string]FileState
	kinds     map[string]KindState
}

// DashboardData is a point-in-time copy of a Dashboard.
type DashboardData struct {
	RunID     string               `json:"run_id"`
	StartTime time.Time            `json:"start_time"`
	Status    string               `json:"status"` // running, passed, failed
	Files     map[string]FileState `json:"files"`
	Kinds     map[string]KindState `json:"kinds"`
	Summary   DashboardSummary     `json:"summary"`
}

// FileState represents the current state of a check file.
type FileState struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// KindState counts outcomes of one check kind.
type KindState struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Checks       int      `json:"checks"`
	Passed       int      `json:"passed"`
	Failed       int      `json:"failed"`
	Files        int      `json:"files"`
	FailedFiles  int      `json:"failed_files"`
	RunningFiles int      `json:"running_files"`
	PassRate     float64  `json:"pass_rate"`
	Elapsed      string   `json:"elapsed"`
	FailingFiles []string `json:"failing_files,omitempty"`
}

const maxFailingFiles = 10

// NewDashboard creates an empty dashboard for runID.
func NewDashboard(runID string) *Dashboard {
	return &Dashboard{
		runID:     runID,
		startTime: time.Now(),
		status:    "running",
		files:     make(map[string]FileState),
		kinds:     make(map[string]KindState),
	}
}

// UpdateFromEvent updates dashboard state from a check event.
func (d *Dashboard) UpdateFromEvent(event CheckEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if event.Type == EventCheck {
		k := d.kinds[string(event.Kind)]
		if event.Passed {
			k.Passed++
		} else {
			k.Failed++
		}
		d.kinds[string(event.Kind)] = k
		return
	}
	if event.File == "" {
		return
	}

	now := time.Now()
	state, exists := d.files[event.File]
	if !exists {
		state = FileState{Name: event.File}
	}

	switch event.Type {
	case EventFileStarted:
		state.Status = "running"
		state.StartTime = &now
	case EventFileCompleted:
		state.Status = "passed"
		state.EndTime = &now
		state.Duration = event.Duration
	case EventFileFailed:
		state.Status = "failed"
		state.EndTime = &now
		state.Duration = event.Duration
		state.Message = event.Message
	}

	d.files[event.File] = state
}

// SetStatus sets the overall run status.
func (d *Dashboard) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// Snapshot returns a copy of the current dashboard state with
// its summary computed.
func (d *Dashboard) Snapshot() DashboardData {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardData{
		RunID:     d.runID,
		StartTime: d.startTime,
		Status:    d.status,
		Files:     make(map[string]FileState, len(d.files)),
		Kinds:     make(map[string]KindState, len(d.kinds)),
	}
	for k, v := range d.files {
		snap.Files[k] = v
	}
	for k, v := range d.kinds {
		snap.Kinds[k] = v
	}
	snap.Summary = d.summary()
	return snap
}

func (d *Dashboard) summary() DashboardSummary {
	s := DashboardSummary{}
	for _, k := range d.kinds {
		s.Passed += k.Passed
		s.Failed += k.Failed
	}
	s.Checks = s.Passed + s.Failed
	if s.Checks > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Checks) * 100
	}

	var failed []FileState
	for _, f := range d.files {
		s.Files++
		switch f.Status {
		case "failed":
			s.FailedFiles++
			failed = append(failed, f)
		case "running":
			s.RunningFiles++
		}
	}
	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Name < failed[j].Name
	})
	for i, f := range failed {
		if i == maxFailingFiles {
			break
		}
		s.FailingFiles = append(s.FailingFiles, f.Name)
	}

	s.Elapsed = time.Since(d.startTime).Round(time.Millisecond).String()
	return s
}

// BuildDashboard creates a Dashboard from an EventCollector by
// replaying all collected events.
func BuildDashboard(collector *EventCollector) *Dashboard {
	d := NewDashboard("snapshot")
	for _, event := range collector.Events() {
		d.UpdateFromEvent(event)
	}
	return d
}
