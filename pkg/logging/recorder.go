package logging

import "sync"

// Entry is one record captured by a Recorder.
type Entry struct {
	Level   LogLevel
	Message string
	Fields  map[string]any
}

type recorderStore struct {
	mu      sync.Mutex
	entries []Entry
}

// Recorder keeps every log call in memory. It implements both
// Logger and Sink so tests can assert on the exact text a check
// emitted.
type Recorder struct {
	store  *recorderStore
	fields map[string]any
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{store: &recorderStore{}}
}

func (r *Recorder) record(level LogLevel, msg string, fields []Field) {
	var merged map[string]any
	if len(r.fields)+len(fields) > 0 {
		merged = make(map[string]any, len(r.fields)+len(fields))
		for k, v := range r.fields {
			merged[k] = v
		}
		for _, f := range fields {
			merged[f.Key] = f.Value
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = append(r.store.entries, Entry{
		Level:   level,
		Message: msg,
		Fields:  merged,
	})
}

// Emit records msg at level.
func (r *Recorder) Emit(level LogLevel, msg string) {
	r.record(level, msg, nil)
}

// Info records an informational message.
func (r *Recorder) Info(msg string, fields ...Field) {
	r.record(LevelInfo, msg, fields)
}

// Warn records a warning message.
func (r *Recorder) Warn(msg string, fields ...Field) {
	r.record(LevelWarn, msg, fields)
}

// Error records an error message.
func (r *Recorder) Error(msg string, fields ...Field) {
	r.record(LevelError, msg, fields)
}

// Debug records a debug message.
func (r *Recorder) Debug(msg string, fields ...Field) {
	r.record(LevelDebug, msg, fields)
}

// WithFields returns a Recorder sharing the same storage with
// additional default fields.
func (r *Recorder) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(r.fields)+len(fields))
	for k, v := range r.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}
	return &Recorder{store: r.store, fields: newFields}
}

// Close is a no-op.
func (r *Recorder) Close() error { return nil }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]Entry, len(r.store.entries))
	copy(out, r.store.entries)
	return out
}

// Messages returns the messages recorded at level, in order.
func (r *Recorder) Messages(level LogLevel) []string {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []string
	for _, e := range r.store.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops all recorded entries.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = nil
}
