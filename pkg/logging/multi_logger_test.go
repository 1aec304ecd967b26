package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// testMockLogger is a mock logger for testing MultiLogger
// delegation.
type testMockLogger struct {
	mock.Mock
}

func (m *testMockLogger) Info(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Warn(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Error(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Debug(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) WithFields(fields ...Field) Logger {
	args := m.Called(fields)
	return args.Get(0).(Logger)
}

func (m *testMockLogger) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewMultiLogger_SkipsNil(t *testing.T) {
	m := NewMultiLogger(NullLogger{}, nil, NewRecorder())
	assert.Equal(t, 2, m.Len())
}

func TestMultiLogger_Delegates(t *testing.T) {
	tests := []struct {
		name   string
		method string
		call   func(l Logger)
	}{
		{"info", "Info", func(l Logger) { l.Info("msg") }},
		{"warn", "Warn", func(l Logger) { l.Warn("msg") }},
		{"error", "Error", func(l Logger) { l.Error("msg") }},
		{"debug", "Debug", func(l Logger) { l.Debug("msg") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := &testMockLogger{}, &testMockLogger{}
			a.On(tt.method, "msg", []Field(nil)).Return()
			b.On(tt.method, "msg", []Field(nil)).Return()

			tt.call(NewMultiLogger(a, b))

			a.AssertExpectations(t)
			b.AssertExpectations(t)
		})
	}
}

func TestMultiLogger_WithFields(t *testing.T) {
	rec1, rec2 := NewRecorder(), NewRecorder()
	m := NewMultiLogger(rec1, rec2)

	m.WithFields(StringField("k", "v")).Info("hello")

	for _, rec := range []*Recorder{rec1, rec2} {
		entries := rec.Entries()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "v", entries[0].Fields["k"])
		}
	}
}

func TestMultiLogger_CloseJoinsErrors(t *testing.T) {
	a, b, c := &testMockLogger{}, &testMockLogger{}, &testMockLogger{}
	a.On("Close").Return(errors.New("first"))
	b.On("Close").Return(nil)
	c.On("Close").Return(errors.New("third"))

	err := NewMultiLogger(a, b, c).Close()

	assert.ErrorContains(t, err, "first")
	assert.ErrorContains(t, err, "third")
	a.AssertExpectations(t)
	b.AssertExpectations(t)
	c.AssertExpectations(t)
}
