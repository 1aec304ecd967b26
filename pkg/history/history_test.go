package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*BoltStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestBoltStore_AppendAndList(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	first, err := s.Append(Entry{RunID: "r1", File: "login", Status: StatusPassed})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID)
	assert.False(t, first.Timestamp.IsZero())

	_, err = s.Append(Entry{
		RunID: "r1", File: "cart", Status: StatusFailed,
		Message: "\nFail Test.", Duration: 3 * time.Millisecond,
	})
	require.NoError(t, err)
	_, err = s.Append(Entry{RunID: "r2", File: "login", Status: StatusFailed})
	require.NoError(t, err)

	all, err := s.List(Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint64{3, 2, 1}, []uint64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "\nFail Test.", all[1].Message)
	assert.Equal(t, 3*time.Millisecond, all[1].Duration)
}

func TestBoltStore_Query(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	for _, e := range []Entry{
		{File: "login", Status: StatusPassed},
		{File: "login", Status: StatusFailed},
		{File: "cart", Status: StatusFailed},
		{File: "login", Status: StatusPassed},
	} {
		_, err := s.Append(e)
		require.NoError(t, err)
	}

	login, err := s.List(Query{File: "login"})
	require.NoError(t, err)
	assert.Len(t, login, 3)

	failed, err := s.List(Query{Status: StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, "cart", failed[0].File)

	latest, err := s.List(Query{File: "login", Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, uint64(4), latest[0].ID)

	none, err := s.List(Query{File: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBoltStore_Persists(t *testing.T) {
	s, path := openTestStore(t)
	_, err := s.Append(Entry{File: "login", Status: StatusPassed})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	e, err := reopened.Append(Entry{File: "login", Status: StatusFailed})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.ID)

	entries, err := reopened.List(Query{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpen_Error(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "history.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open history db")
}

func TestBoltStore_ImplementsStore(t *testing.T) {
	var _ Store = &BoltStore{}
}
