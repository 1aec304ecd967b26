package checkfile

import (
	"fmt"
	"reflect"

	"digital.vasic.softassert/pkg/assertion"
)

// Param describes what a check argument must look like.
type Param int

const (
	// ParamAny accepts any value.
	ParamAny Param = iota
	// ParamText accepts scalars; non-strings are rendered
	// with assertion.Str.
	ParamText
	// ParamList accepts a sequence or null.
	ParamList
)

// String returns the parameter name used in validation errors.
func (p Param) String() string {
	switch p {
	case ParamText:
		return "text"
	case ParamList:
		return "list"
	default:
		return "any"
	}
}

// accepts reports whether v can be passed as p.
func (p Param) accepts(v any) bool {
	switch p {
	case ParamText:
		if v == nil {
			return true
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
			return false
		}
		return true
	case ParamList:
		if v == nil {
			return true
		}
		k := reflect.ValueOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}
	return true
}

// Binding connects a check kind to the Checker method that
// evaluates it. Args have already been validated against
// Params when Call runs.
type Binding struct {
	Params []Param
	Call   func(c *assertion.Checker, args []any, opts ...assertion.Option) error
}

func (b Binding) validate(args []any) error {
	if len(args) != len(b.Params) {
		return fmt.Errorf(
			"expects %d argument(s), got %d",
			len(b.Params), len(args),
		)
	}
	for i, p := range b.Params {
		if !p.accepts(args[i]) {
			return fmt.Errorf(
				"argument %d must be %s, got %s",
				i, p, assertion.Repr(args[i]),
			)
		}
	}
	return nil
}

// text renders a validated ParamText argument. A null becomes
// the empty string.
func text(v any) string {
	if v == nil {
		return ""
	}
	return assertion.Str(v)
}

// builtinBindings returns a binding for every Checker method.
func builtinBindings() map[string]Binding {
	return map[string]Binding{
		string(assertion.KindEqual): {
			Params: []Param{ParamAny, ParamAny},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.Equal(a[0], a[1], o...)
			},
		},
		string(assertion.KindTrue): {
			Params: []Param{ParamAny},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.True(a[0], o...)
			},
		},
		string(assertion.KindFalse): {
			Params: []Param{ParamAny},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.False(a[0], o...)
			},
		},
		string(assertion.KindFail): {
			Call: func(c *assertion.Checker, _ []any, o ...assertion.Option) error {
				return c.Fail(o...)
			},
		},
		string(assertion.KindTextNotEmpty): {
			Params: []Param{ParamText},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.TextNotEmpty(text(a[0]), o...)
			},
		},
		string(assertion.KindTextStartsWith): {
			Params: []Param{ParamText, ParamText},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.TextStartsWith(text(a[0]), text(a[1]), o...)
			},
		},
		string(assertion.KindTextEndsWith): {
			Params: []Param{ParamText, ParamText},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.TextEndsWith(text(a[0]), text(a[1]), o...)
			},
		},
		string(assertion.KindTextContains): {
			Params: []Param{ParamText, ParamText},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.TextContains(text(a[0]), text(a[1]), o...)
			},
		},
		string(assertion.KindListEmpty): {
			Params: []Param{ParamList},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.ListEmpty(a[0], o...)
			},
		},
		string(assertion.KindListNotEmpty): {
			Params: []Param{ParamList},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.ListNotEmpty(a[0], o...)
			},
		},
		string(assertion.KindListHasItem): {
			Params: []Param{ParamList, ParamAny},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.ListHasItem(a[0], a[1], o...)
			},
		},
		string(assertion.KindListExcludes): {
			Params: []Param{ParamList, ParamAny},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.ListExcludes(a[0], a[1], o...)
			},
		},
		string(assertion.KindListContainsAll): {
			Params: []Param{ParamList, ParamList},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.ListContainsAll(a[0], a[1], o...)
			},
		},
		string(assertion.KindDateFormat): {
			Params: []Param{ParamText, ParamText},
			Call: func(c *assertion.Checker, a []any, o ...assertion.Option) error {
				return c.DateFormat(text(a[0]), text(a[1]), o...)
			},
		},
	}
}
