package assertion

import "fmt"

// Option overrides the default messages of a single check.
type Option func(*messages)

type messages struct {
	failure    string
	success    string
	hasFailure bool
	hasSuccess bool
}

// Msg sets the failure message. An empty string still counts
// as a custom message.
func Msg(msg string) Option {
	return func(m *messages) {
		m.failure = msg
		m.hasFailure = true
	}
}

// Msgf is Msg with fmt.Sprintf formatting.
func Msgf(format string, args ...any) Option {
	return Msg(fmt.Sprintf(format, args...))
}

// SuccessMsg sets the message logged when the check passes.
func SuccessMsg(msg string) Option {
	return func(m *messages) {
		m.success = msg
		m.hasSuccess = true
	}
}

func resolve(opts []Option) messages {
	var m messages
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

func (m messages) failureOr(def string) string {
	if m.hasFailure {
		return m.failure
	}
	return def
}

func (m messages) successOr(def string) string {
	if m.hasSuccess {
		return m.success
	}
	return def
}
