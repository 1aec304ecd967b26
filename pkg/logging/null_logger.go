package logging

// NullLogger drops every entry. Engines, runners and the monitor
// server fall back to it when no logger is configured, and as a
// Sink it silences a Checker.
type NullLogger struct{}

func (NullLogger) Info(_ string, _ ...Field)  {}
func (NullLogger) Warn(_ string, _ ...Field)  {}
func (NullLogger) Error(_ string, _ ...Field) {}
func (NullLogger) Debug(_ string, _ ...Field) {}

// Emit implements Sink.
func (NullLogger) Emit(_ LogLevel, _ string) {}

func (NullLogger) WithFields(_ ...Field) Logger { return NullLogger{} }

func (NullLogger) Close() error { return nil }
