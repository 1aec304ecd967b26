package assertion

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.softassert/pkg/logging"
)

func TestSoftAssert_AggregatesInOrder(t *testing.T) {
	c, rec := newTestChecker()
	sa := c.Soft()

	sa.Equal(1, 2)
	sa.True(false)
	sa.Equal(5, 5)

	assert.Equal(t, 2, sa.Len())
	assert.Equal(t,
		[]string{"Verified that: 5 is equal to 5."},
		rec.Messages(logging.LevelInfo),
	)

	err := sa.AssertAll()
	requireFailure(t, err,
		"\n1 is not equal to 2.\nThe expression passed as 'expr' is not True.")
	assert.True(t, sa.Finalized())
}

func TestSoftAssert_NoFailures(t *testing.T) {
	c, rec := newTestChecker()
	sa := c.Soft()
	sa.TextStartsWith("String", "Str")
	sa.ListNotEmpty([]int{1})

	require.NoError(t, sa.AssertAll())
	assert.Len(t, rec.Entries(), 2)
}

func TestSoftAssert_EmptySessionIsSilent(t *testing.T) {
	c, rec := newTestChecker()
	require.NoError(t, c.Soft().AssertAll())
	assert.Empty(t, rec.Entries())
}

func TestSoftAssert_CustomMessageIsCaptured(t *testing.T) {
	c, _ := newTestChecker()
	sa := NewSoft(c)

	sa.Equal(1, 2, Msg("one is not equal to two"))
	sa.TextNotEmpty("", Msg(""))
	sa.DateFormat("yesterday", "%Y-%m-%d")

	assert.Equal(t, []string{
		"one is not equal to two",
		"",
		"Expecting format of yesterday to match format %Y-%m-%d but it did not.",
	}, sa.Failures())
}

func TestSoftAssert_MirrorsEveryPrimitive(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()

	sa.Equal("a", "b")
	sa.True(0)
	sa.False(1)
	sa.Fail()
	sa.TextNotEmpty("")
	sa.TextStartsWith("abc", "b")
	sa.TextEndsWith("abc", "b")
	sa.TextContains("abc", "z")
	sa.ListEmpty([]int{1})
	sa.ListNotEmpty([]int{})
	sa.ListHasItem([]int{1}, 2)
	sa.ListExcludes([]int{1}, 1)
	sa.ListContainsAll([]string{"a"}, []string{"a", "b"})
	sa.DateFormat("x", "%Y")

	assert.Equal(t, []string{
		"a is not equal to b.",
		"The expression passed as 'expr' is not True.",
		"The expression passed as 'expr' is not False.",
		"Fail Test.",
		"Provided text is empty.",
		"abc does not start with b.",
		"abc does not end with b.",
		"abc does not contain z.",
		"List [1] is not empty.",
		"List [] is empty.",
		"List [1] does not contain 2.",
		"List [1] contains 1.",
		"List ['a'] does not contain all of ['a', 'b']. See missing item/s: ['b'].",
		"Expecting format of x to match format %Y but it did not.",
	}, sa.Failures())
}

func TestSoftAssert_Handle(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()

	sa.Handle(func() error { return c.Equal(1, 2, Msg("custom")) })
	sa.Handle(func() error { return c.Equal(2, 2) })
	sa.Handle(func() error { return errors.New("plain error") })

	assert.Equal(t, []string{"custom", "plain error"}, sa.Failures())
}

func TestSoftAssert_HandleFunc(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()

	sa.HandleFunc(c.Equal, 1, 2, Msg("one is not two"))
	sa.HandleFunc(c.Equal, 3, 3)
	sa.HandleFunc(c.TextNotEmpty, "")
	sa.HandleFunc(c.ListHasItem, nil, 1)
	sa.HandleFunc(c.Fail)
	sa.HandleFunc(func(s string) *AssertionError {
		if s == "ok" {
			return nil
		}
		return &AssertionError{Message: "typed " + s}
	}, "bad")
	sa.HandleFunc(func(s string) *AssertionError { return nil }, "ok")
	sa.HandleFunc(func() {})
	sa.HandleFunc(strconv.Atoi, "x1")

	assert.Equal(t, []string{
		"one is not two",
		"Provided text is empty.",
		"List None does not contain 1.",
		"Fail Test.",
		"typed bad",
		`strconv.Atoi: parsing "x1": invalid syntax`,
	}, sa.Failures())
}

func TestSoftAssert_HandleFuncMisuse(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()

	assert.Panics(t, func() { sa.HandleFunc("not a func") })
	assert.Panics(t, func() { sa.HandleFunc(c.Equal, 1) })
	assert.Panics(t, func() { sa.HandleFunc(c.TextNotEmpty, 5, 6, 7) })
	assert.Panics(t, func() { sa.HandleFunc(c.TextNotEmpty, []int{}) })
	assert.Zero(t, sa.Len())
}

func TestSoftAssert_NonAssertionPanicsPropagate(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()
	assert.Panics(t, func() { sa.ListEmpty("not a list") })
	assert.Zero(t, sa.Len())
}

func TestSoftAssert_FinalizeIsTerminal(t *testing.T) {
	c, rec := newTestChecker()
	sa := c.Soft()
	sa.Fail()
	require.Error(t, sa.AssertAll())

	rec.Reset()
	sa.Equal(1, 2)
	sa.Handle(func() error { return errors.New("late") })
	sa.HandleFunc(c.Fail)

	assert.Equal(t, 1, sa.Len())
	assert.Len(t, rec.Messages(logging.LevelWarn), 3)

	err := sa.AssertAll()
	assert.ErrorIs(t, err, ErrSessionFinalized)
	assert.True(t, IsFinalizedError(err))
	assert.False(t, IsAssertionError(err))
}

func TestSoftAssert_FailureAfterFinalizeIsDropped(t *testing.T) {
	c, rec := newTestChecker()
	sa := c.Soft()

	var finalErr error
	sa.Handle(func() error {
		finalErr = sa.AssertAll()
		return errors.New("late")
	})

	require.NoError(t, finalErr)
	assert.Zero(t, sa.Len())
	assert.Equal(t,
		[]string{"Soft assertion session finalized during check; failure dropped: late"},
		rec.Messages(logging.LevelWarn),
	)
	assert.ErrorIs(t, sa.AssertAll(), ErrSessionFinalized)
}

func TestSoftAssert_SecondFinalizeAfterPass(t *testing.T) {
	c, _ := newTestChecker()
	sa := c.Soft()
	require.NoError(t, sa.AssertAll())
	assert.ErrorIs(t, sa.AssertAll(), ErrSessionFinalized)
}

func TestSoftAssert_ObserversSeeDeferredOutcomes(t *testing.T) {
	var mu sync.Mutex
	var got []Outcome
	c, _ := newTestChecker(WithObserver(ObserverFunc(func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, o)
	})))

	_ = c.Equal(1, 1)
	sa := c.Soft()
	sa.Equal(1, 2)
	_ = sa.AssertAll()

	require.Len(t, got, 3)
	assert.False(t, got[0].Deferred)
	assert.True(t, got[1].Deferred)
	assert.False(t, got[1].Passed)
	assert.Equal(t, KindAssertAll, got[2].Kind)
	assert.False(t, got[2].Deferred)
	assert.Equal(t, "\n1 is not equal to 2.", got[2].Message)
}

func TestNewSoft_NilChecker(t *testing.T) {
	sa := NewSoft(nil)
	sa.Equal(1, 2)
	requireFailure(t, sa.AssertAll(), "\n1 is not equal to 2.")
}

func TestSoftAssert_IndependentSessions(t *testing.T) {
	c, _ := newTestChecker()

	var wg sync.WaitGroup
	sessions := make([]*SoftAssert, 8)
	for i := range sessions {
		sessions[i] = c.Soft()
		wg.Add(1)
		go func(sa *SoftAssert, n int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				sa.Fail()
			}
		}(sessions[i], i)
	}
	wg.Wait()

	for i, sa := range sessions {
		assert.Equal(t, i, sa.Len())
	}
}

func TestSoftAssert_Check(t *testing.T) {
	var deferred []bool
	c, _ := newTestChecker(WithObserver(ObserverFunc(func(o Outcome) {
		deferred = append(deferred, o.Deferred)
	})))
	sa := c.Soft()

	sa.Check(func(sc *Checker) error { return sc.TextContains("abc", "d") })
	sa.Check(func(sc *Checker) error { return sc.TextContains("abc", "a") })

	assert.Equal(t, []string{"abc does not contain d."}, sa.Failures())
	assert.Equal(t, []bool{true, true}, deferred)
}
