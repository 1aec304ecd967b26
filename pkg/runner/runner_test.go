package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digital.vasic.softassert/pkg/assertion"
	"digital.vasic.softassert/pkg/checkfile"
	"digital.vasic.softassert/pkg/metrics"
)

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Run(f checkfile.File) error {
	return m.Called(f.Name).Error(0)
}

func (m *mockEvaluator) RunHard(f checkfile.File) error {
	return m.Called(f.Name).Error(0)
}

func files(names ...string) []checkfile.File {
	out := make([]checkfile.File, len(names))
	for i, n := range names {
		out[i] = checkfile.File{Name: n, Source: n + ".yaml"}
	}
	return out
}

func TestRunner_Sequential(t *testing.T) {
	ev := &mockEvaluator{}
	ev.On("Run", "a").Return(nil).Once()
	ev.On("Run", "b").Return(&assertion.AssertionError{Message: "\nFail Test."}).Once()

	counters := metrics.NewCounters()
	r := NewRunner(ev, WithMetrics(counters))

	results, err := r.Run(context.Background(), files("a", "b"))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].File)
	assert.Equal(t, "a.yaml", results[0].Source)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.EqualError(t, results[1].Err, "\nFail Test.")

	assert.Equal(t, 1, counters.FileRunCount("a", true))
	assert.Equal(t, 1, counters.FileRunCount("b", false))
	ev.AssertExpectations(t)
}

func TestRunner_Hard(t *testing.T) {
	ev := &mockEvaluator{}
	ev.On("RunHard", "a").Return(nil).Once()

	r := NewRunner(ev, WithHard(true))
	results, err := r.Run(context.Background(), files("a"))
	require.NoError(t, err)
	assert.True(t, results[0].Passed())
	ev.AssertExpectations(t)
	ev.AssertNotCalled(t, "Run", "a")
}

func TestRunner_Hooks(t *testing.T) {
	ev := &mockEvaluator{}
	ev.On("Run", "a").Return(nil)

	var pre, post []Result
	r := NewRunner(ev,
		WithPreHook(func(r Result) { pre = append(pre, r) }),
		WithPostHook(func(r Result) { post = append(post, r) }),
	)

	_, err := r.Run(context.Background(), files("a"))
	require.NoError(t, err)
	require.Len(t, pre, 1)
	require.Len(t, post, 1)
	assert.Equal(t, "a", pre[0].File)
	assert.Zero(t, pre[0].Duration)
	assert.True(t, post[0].Passed())
}

func TestRunner_CancelledContext(t *testing.T) {
	ev := &mockEvaluator{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, n := range []int{1, 3} {
		r := NewRunner(ev, WithParallelism(n))
		results, err := r.Run(ctx, files("a", "b"))
		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, results, 2)
		for _, res := range results {
			assert.True(t, res.Skipped)
			assert.False(t, res.Passed())
		}
	}
	ev.AssertNotCalled(t, "Run", mock.Anything)
}

type slowEvaluator struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	order    []string
}

func (s *slowEvaluator) Run(f checkfile.File) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxSeen.Load()
		if n <= cur || s.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)

	s.mu.Lock()
	s.order = append(s.order, f.Name)
	s.mu.Unlock()
	if f.Name == "c" {
		return errors.New("c failed")
	}
	return nil
}

func (s *slowEvaluator) RunHard(f checkfile.File) error { return s.Run(f) }

func TestRunner_ParallelRespectsLimit(t *testing.T) {
	ev := &slowEvaluator{}
	r := NewRunner(ev, WithParallelism(2))

	results, err := r.Run(context.Background(), files("a", "b", "c", "d", "e"))
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.LessOrEqual(t, ev.maxSeen.Load(), int32(2))
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, name, results[i].File)
	}
	assert.EqualError(t, results[2].Err, "c failed")
	assert.Len(t, ev.order, 5)
}

func TestRunner_ParallelWithEngine(t *testing.T) {
	counters := metrics.NewCounters()
	checker := assertion.New(nil, assertion.WithObserver(metrics.Observer(counters)))
	engine := checkfile.NewEngine(checker)

	var input []checkfile.File
	for i := 0; i < 8; i++ {
		input = append(input, checkfile.File{
			Name: string(rune('a' + i)),
			Checks: []checkfile.Definition{
				{Kind: "equal", Args: []any{i, i}},
				{Kind: "list_has_item", Args: []any{[]any{1, 2}, 3}},
			},
		})
	}

	r := NewRunner(engine, WithParallelism(4), WithMetrics(counters))
	results, err := r.Run(context.Background(), input)
	require.NoError(t, err)

	for _, res := range results {
		require.Error(t, res.Err)
		assert.Equal(t, "\nList [1, 2] does not contain 3.", res.Err.Error())
	}
	assert.Equal(t, 8, counters.CheckCount(assertion.KindEqual, true))
	assert.Equal(t, 8, counters.SessionCount(false))
	assert.Equal(t, Summary{Total: 8, Failed: 8}, Summarize(results))
}

func TestWithParallelism_Floor(t *testing.T) {
	r := NewRunner(nil, WithParallelism(0))
	assert.Equal(t, 1, r.parallelism)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{File: "a"},
		{File: "b", Err: errors.New("x")},
		{File: "c", Skipped: true},
	})
	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}, s)
}
