package assertion

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"digital.vasic.softassert/pkg/logging"
)

// SoftAssert collects assertion failures instead of returning
// them. Call AssertAll at the end of the scenario, otherwise
// captured failures are never reported.
//
// A session is accumulating until AssertAll is called and
// finalized afterwards. Finalization is terminal: later checks
// are not evaluated and a second AssertAll returns
// ErrSessionFinalized. Each goroutine should own its session.
type SoftAssert struct {
	mu        sync.Mutex
	checker   *Checker
	failures  []string
	finalized bool
}

// NewSoft starts a soft session that evaluates checks with c.
func NewSoft(c *Checker) *SoftAssert {
	if c == nil {
		c = New(nil)
	}
	deferred := *c
	deferred.deferred = true
	return &SoftAssert{checker: &deferred}
}

// accepting reports whether the session still takes checks and
// logs a warning when it does not.
func (s *SoftAssert) accepting() bool {
	s.mu.Lock()
	finalized := s.finalized
	s.mu.Unlock()

	if finalized {
		s.checker.sink.Emit(
			logging.LevelWarn,
			"Soft assertion session already finalized; check not evaluated.",
		)
	}
	return !finalized
}

// capture records the message of err. A failure that arrives
// after AssertAll finalized the session is dropped with a
// warning, so AssertAll always reports the complete set.
func (s *SoftAssert) capture(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if !s.finalized {
		s.failures = append(s.failures, err.Error())
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.checker.sink.Emit(
		logging.LevelWarn,
		"Soft assertion session finalized during check; failure dropped: "+err.Error(),
	)
}

func (s *SoftAssert) run(check func(c *Checker) error) {
	if !s.accepting() {
		return
	}
	s.capture(check(s.checker))
}

// Check runs fn with the session's checker and captures the
// failure it returns. Outcomes are reported as deferred.
func (s *SoftAssert) Check(fn func(c *Checker) error) {
	s.run(fn)
}

// Handle runs an arbitrary check and captures the message of
// any error it returns.
func (s *SoftAssert) Handle(check func() error) {
	if !s.accepting() {
		return
	}
	s.capture(check())
}

// HandleFunc calls fn with args and captures the message of a
// non-nil error returned as its last result. It lets callers
// that hold a function value, such as a Checker method, convert
// it into a soft check:
//
//	sa.HandleFunc(c.Equal, 1, 2, assertion.Msg("one is not two"))
//
// fn must be a function and args must be assignable to its
// parameters; anything else panics.
func (s *SoftAssert) HandleFunc(fn any, args ...any) {
	if !s.accepting() {
		return
	}
	s.capture(callCheck(fn, args))
}

func callCheck(fn any, args []any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		panic(fmt.Sprintf("assertion: HandleFunc needs a function, got %T", fn))
	}
	ft := fv.Type()

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!ft.IsVariadic() && len(args) != fixed) {
		panic(fmt.Sprintf(
			"assertion: %s called with %d arguments", ft, len(args),
		))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(fixed).Elem()
		}
		in[i] = argValue(arg, pt)
	}

	out := fv.Call(in)
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if !last.Type().Implements(errorType) {
		return nil
	}
	switch last.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map,
		reflect.Slice, reflect.Func, reflect.Chan:
		if last.IsNil() {
			return nil
		}
	}
	return last.Interface().(error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func argValue(arg any, pt reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(pt)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v
	}
	panic(fmt.Sprintf("assertion: cannot use %T as %s", arg, pt))
}

// Equal is the soft form of Checker.Equal.
func (s *SoftAssert) Equal(actual, expected any, opts ...Option) {
	s.run(func(c *Checker) error { return c.Equal(actual, expected, opts...) })
}

// True is the soft form of Checker.True.
func (s *SoftAssert) True(expr any, opts ...Option) {
	s.run(func(c *Checker) error { return c.True(expr, opts...) })
}

// False is the soft form of Checker.False.
func (s *SoftAssert) False(expr any, opts ...Option) {
	s.run(func(c *Checker) error { return c.False(expr, opts...) })
}

// Fail records an unconditional failure.
func (s *SoftAssert) Fail(opts ...Option) {
	s.run(func(c *Checker) error { return c.Fail(opts...) })
}

// TextNotEmpty is the soft form of Checker.TextNotEmpty.
func (s *SoftAssert) TextNotEmpty(txt string, opts ...Option) {
	s.run(func(c *Checker) error { return c.TextNotEmpty(txt, opts...) })
}

// TextStartsWith is the soft form of Checker.TextStartsWith.
func (s *SoftAssert) TextStartsWith(txt, start string, opts ...Option) {
	s.run(func(c *Checker) error { return c.TextStartsWith(txt, start, opts...) })
}

// TextEndsWith is the soft form of Checker.TextEndsWith.
func (s *SoftAssert) TextEndsWith(txt, end string, opts ...Option) {
	s.run(func(c *Checker) error { return c.TextEndsWith(txt, end, opts...) })
}

// TextContains is the soft form of Checker.TextContains.
func (s *SoftAssert) TextContains(txt, content string, opts ...Option) {
	s.run(func(c *Checker) error { return c.TextContains(txt, content, opts...) })
}

// ListEmpty is the soft form of Checker.ListEmpty.
func (s *SoftAssert) ListEmpty(lst any, opts ...Option) {
	s.run(func(c *Checker) error { return c.ListEmpty(lst, opts...) })
}

// ListNotEmpty is the soft form of Checker.ListNotEmpty.
func (s *SoftAssert) ListNotEmpty(lst any, opts ...Option) {
	s.run(func(c *Checker) error { return c.ListNotEmpty(lst, opts...) })
}

// ListHasItem is the soft form of Checker.ListHasItem.
func (s *SoftAssert) ListHasItem(lst, content any, opts ...Option) {
	s.run(func(c *Checker) error { return c.ListHasItem(lst, content, opts...) })
}

// ListExcludes is the soft form of Checker.ListExcludes.
func (s *SoftAssert) ListExcludes(lst, item any, opts ...Option) {
	s.run(func(c *Checker) error { return c.ListExcludes(lst, item, opts...) })
}

// ListContainsAll is the soft form of Checker.ListContainsAll.
func (s *SoftAssert) ListContainsAll(lst, contents any, opts ...Option) {
	s.run(func(c *Checker) error { return c.ListContainsAll(lst, contents, opts...) })
}

// DateFormat is the soft form of Checker.DateFormat.
func (s *SoftAssert) DateFormat(date, format string, opts ...Option) {
	s.run(func(c *Checker) error { return c.DateFormat(date, format, opts...) })
}

// Failures returns a copy of the captured failure messages in
// capture order.
func (s *SoftAssert) Failures() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failures))
	copy(out, s.failures)
	return out
}

// Len returns the number of captured failures.
func (s *SoftAssert) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures)
}

// Finalized reports whether AssertAll has been called.
func (s *SoftAssert) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// AssertAll finalizes the session. It returns nil when nothing
// failed, and otherwise one *AssertionError whose message is
// every captured message, each preceded by a newline.
func (s *SoftAssert) AssertAll() error {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return ErrSessionFinalized
	}
	s.finalized = true
	failures := make([]string, len(s.failures))
	copy(failures, s.failures)
	s.mu.Unlock()

	if len(failures) == 0 {
		s.checker.notify(Outcome{Kind: KindAssertAll, Passed: true})
		return nil
	}

	msg := "\n" + strings.Join(failures, "\n")
	s.checker.notify(Outcome{Kind: KindAssertAll, Passed: false, Message: msg})
	return &AssertionError{Message: msg}
}

// IsFinalizedError reports whether err came from calling
// AssertAll on a finalized session.
func IsFinalizedError(err error) bool {
	return errors.Is(err, ErrSessionFinalized)
}
