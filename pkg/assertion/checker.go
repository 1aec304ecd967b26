package assertion

import (
	"fmt"
	"strings"

	"digital.vasic.softassert/pkg/logging"
)

// Checker evaluates hard assertions. Each method returns nil
// when the condition holds, after emitting the success message
// at INFO, and an *AssertionError otherwise.
//
// A Checker holds no per-check state and may be shared between
// goroutines as long as its sink and observers are safe for
// concurrent use.
type Checker struct {
	sink      logging.Sink
	observers []Observer
	deferred  bool
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithObserver registers observers notified of every outcome.
func WithObserver(observers ...Observer) CheckerOption {
	return func(c *Checker) {
		for _, o := range observers {
			if o != nil {
				c.observers = append(c.observers, o)
			}
		}
	}
}

// New creates a Checker emitting through sink. A nil sink
// discards success messages.
func New(sink logging.Sink, opts ...CheckerOption) *Checker {
	if sink == nil {
		sink = logging.NullLogger{}
	}
	c := &Checker{sink: sink}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Soft starts a new soft assertion session on this checker.
func (c *Checker) Soft() *SoftAssert {
	return NewSoft(c)
}

func (c *Checker) notify(o Outcome) {
	for _, obs := range c.observers {
		obs.ObserveCheck(o)
	}
}

func (c *Checker) pass(kind Kind, m messages, def string) error {
	msg := m.successOr(def)
	c.sink.Emit(logging.LevelInfo, msg)
	c.notify(Outcome{
		Kind: kind, Passed: true, Message: msg, Deferred: c.deferred,
	})
	return nil
}

func (c *Checker) fail(kind Kind, m messages, def string) error {
	msg := m.failureOr(def)
	c.notify(Outcome{
		Kind: kind, Passed: false, Message: msg, Deferred: c.deferred,
	})
	return &AssertionError{Message: msg}
}

// Equal fails if actual and expected are not deeply equal.
// Numbers compare by value, so 1 equals 1.0.
func (c *Checker) Equal(actual, expected any, opts ...Option) error {
	m := resolve(opts)
	if !valuesEqual(expected, actual) {
		return c.fail(KindEqual, m, fmt.Sprintf(
			"%s is not equal to %s.", Str(actual), Str(expected),
		))
	}
	return c.pass(KindEqual, m, fmt.Sprintf(
		"Verified that: %s is equal to %s.", Str(actual), Str(expected),
	))
}

// True fails unless expr is truthy (see Truthy).
func (c *Checker) True(expr any, opts ...Option) error {
	m := resolve(opts)
	if !Truthy(expr) {
		return c.fail(KindTrue, m,
			"The expression passed as 'expr' is not True.")
	}
	return c.pass(KindTrue, m,
		"Verified that expression passed as 'expr' is True.")
}

// False fails unless expr is falsy (see Truthy).
func (c *Checker) False(expr any, opts ...Option) error {
	m := resolve(opts)
	if Truthy(expr) {
		return c.fail(KindFalse, m,
			"The expression passed as 'expr' is not False.")
	}
	return c.pass(KindFalse, m,
		"Verified that the expression passed as 'expr' is False.")
}

// Fail always fails. SuccessMsg has no effect.
func (c *Checker) Fail(opts ...Option) error {
	return c.fail(KindFail, resolve(opts), "Fail Test.")
}

// TextNotEmpty fails if txt has zero length. Whitespace counts
// as content.
func (c *Checker) TextNotEmpty(txt string, opts ...Option) error {
	m := resolve(opts)
	if len(txt) == 0 {
		return c.fail(KindTextNotEmpty, m, "Provided text is empty.")
	}
	return c.pass(KindTextNotEmpty, m, fmt.Sprintf(
		"Verified that provided text: %s is not empty.", txt,
	))
}

// TextStartsWith fails if txt does not begin with start. The
// comparison is case-sensitive.
func (c *Checker) TextStartsWith(txt, start string, opts ...Option) error {
	m := resolve(opts)
	if !strings.HasPrefix(txt, start) {
		return c.fail(KindTextStartsWith, m, fmt.Sprintf(
			"%s does not start with %s.", txt, start,
		))
	}
	return c.pass(KindTextStartsWith, m, fmt.Sprintf(
		"Verified that: %s starts with %s.", txt, start,
	))
}

// TextEndsWith fails if txt does not end with end. The
// comparison is case-sensitive.
func (c *Checker) TextEndsWith(txt, end string, opts ...Option) error {
	m := resolve(opts)
	if !strings.HasSuffix(txt, end) {
		return c.fail(KindTextEndsWith, m, fmt.Sprintf(
			"%s does not end with %s.", txt, end,
		))
	}
	return c.pass(KindTextEndsWith, m, fmt.Sprintf(
		"Verified that: %s ends with %s.", txt, end,
	))
}

// TextContains fails if content does not occur in txt. The
// comparison is case-sensitive.
func (c *Checker) TextContains(txt, content string, opts ...Option) error {
	m := resolve(opts)
	if !strings.Contains(txt, content) {
		return c.fail(KindTextContains, m, fmt.Sprintf(
			"%s does not contain %s.", txt, content,
		))
	}
	return c.pass(KindTextContains, m, fmt.Sprintf(
		"Verified that: %s contains %s.", txt, content,
	))
}

// ListEmpty fails if lst has at least one element. lst must be
// a slice, an array or nil.
func (c *Checker) ListEmpty(lst any, opts ...Option) error {
	m := resolve(opts)
	if len(elements(lst)) > 0 {
		return c.fail(KindListEmpty, m, fmt.Sprintf(
			"List %s is not empty.", Str(lst),
		))
	}
	return c.pass(KindListEmpty, m, fmt.Sprintf(
		"Verified that: list %s is empty.", Str(lst),
	))
}

// ListNotEmpty fails if lst has no elements.
func (c *Checker) ListNotEmpty(lst any, opts ...Option) error {
	m := resolve(opts)
	if len(elements(lst)) == 0 {
		return c.fail(KindListNotEmpty, m, fmt.Sprintf(
			"List %s is empty.", Str(lst),
		))
	}
	return c.pass(KindListNotEmpty, m, fmt.Sprintf(
		"Verified that: list %s is not empty.", Str(lst),
	))
}

// ListHasItem fails if no element of lst equals content.
func (c *Checker) ListHasItem(lst, content any, opts ...Option) error {
	m := resolve(opts)
	if !containsItem(elements(lst), content) {
		return c.fail(KindListHasItem, m, fmt.Sprintf(
			"List %s does not contain %s.", Str(lst), Str(content),
		))
	}
	return c.pass(KindListHasItem, m, fmt.Sprintf(
		"Verified that: list %s contains %s.", Str(lst), Str(content),
	))
}

// ListExcludes fails if some element of lst equals item.
func (c *Checker) ListExcludes(lst, item any, opts ...Option) error {
	m := resolve(opts)
	if containsItem(elements(lst), item) {
		return c.fail(KindListExcludes, m, fmt.Sprintf(
			"List %s contains %s.", Str(lst), Str(item),
		))
	}
	return c.pass(KindListExcludes, m, fmt.Sprintf(
		"Verified that list %s does not contain %s.", Str(lst), Str(item),
	))
}

// ListContainsAll fails if any element of contents is missing
// from lst. The default message lists the missing items in the
// order they appear in contents.
func (c *Checker) ListContainsAll(lst, contents any, opts ...Option) error {
	m := resolve(opts)
	missing := missingItems(elements(lst), elements(contents))
	if len(missing) > 0 {
		return c.fail(KindListContainsAll, m, fmt.Sprintf(
			"List %s does not contain all of %s. See missing item/s: %s.",
			Str(lst), Str(contents), Str(missing),
		))
	}
	return c.pass(KindListContainsAll, m, fmt.Sprintf(
		"Verified that: list %s contains all of %s.",
		Str(lst), Str(contents),
	))
}

// DateFormat fails if date cannot be parsed with the strptime
// pattern format, such as "%Y-%m-%d". Characters outside
// directives are matched literally.
func (c *Checker) DateFormat(date, format string, opts ...Option) error {
	m := resolve(opts)
	if !matchesDateFormat(date, format) {
		return c.fail(KindDateFormat, m, fmt.Sprintf(
			"Expecting format of %s to match format %s but it did not.",
			date, format,
		))
	}
	return c.pass(KindDateFormat, m, fmt.Sprintf(
		"Verified that date string %s match the format %s.",
		date, format,
	))
}
