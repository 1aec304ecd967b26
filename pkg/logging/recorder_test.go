package logging

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Messages(t *testing.T) {
	rec := NewRecorder()
	rec.Info("first")
	rec.Warn("careful")
	rec.Emit(LevelInfo, "second")

	assert.Equal(t, []string{"first", "second"}, rec.Messages(LevelInfo))
	assert.Equal(t, []string{"careful"}, rec.Messages(LevelWarn))
	assert.Empty(t, rec.Messages(LevelError))
}

func TestRecorder_WithFieldsSharesStorage(t *testing.T) {
	rec := NewRecorder()
	child := rec.WithFields(StringField("session", "login"))
	child.Info("hello", IntField("n", 1))

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "login", entries[0].Fields["session"])
	assert.Equal(t, 1, entries[0].Fields["n"])
	assert.NoError(t, child.Close())
}

func TestRecorder_Reset(t *testing.T) {
	rec := NewRecorder()
	rec.Error("x")
	rec.Debug("y")
	require.Len(t, rec.Entries(), 2)

	rec.Reset()
	assert.Empty(t, rec.Entries())
}

func TestRecorder_Concurrent(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Info("msg")
		}()
	}
	wg.Wait()
	assert.Len(t, rec.Entries(), 20)
}
