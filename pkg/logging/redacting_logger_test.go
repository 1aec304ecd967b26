package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "***"},
		{"abcd", "****"},
		{"secret_sauce", "se**********"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, redactValue(tt.in))
		})
	}
}

func TestRedactingLogger_MasksMessagesAndFields(t *testing.T) {
	rec := NewRecorder()
	l := NewRedactingLogger(rec, "secret_sauce", "")

	l.Info(
		"Verified that: secret_sauce is equal to secret_sauce.",
		StringField("value", "pw=secret_sauce"),
		IntField("n", 7),
	)
	l.Warn("secret_sauce")
	l.Error("secret_sauce")
	l.Debug("secret_sauce")

	entries := rec.Entries()
	require.Len(t, entries, 4)
	assert.Equal(
		t,
		"Verified that: se********** is equal to se**********.",
		entries[0].Message,
	)
	assert.Equal(t, "pw=se**********", entries[0].Fields["value"])
	assert.Equal(t, 7, entries[0].Fields["n"])
	for _, e := range entries[1:] {
		assert.Equal(t, "se**********", e.Message)
	}
}

func TestRedactingLogger_WithFields(t *testing.T) {
	rec := NewRecorder()
	l := NewRedactingLogger(rec, "hunter22")

	child := l.WithFields(StringField("user", "admin:hunter22"))
	child.Info("login")

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "admin:hu******", entries[0].Fields["user"])
	assert.NoError(t, child.Close())
}
