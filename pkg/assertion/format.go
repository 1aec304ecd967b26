package assertion

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Str renders v for a message. Strings are returned as-is and
// every other value is rendered with Repr.
func Str(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}
	if v != nil {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
			return rv.String()
		}
	}
	return Repr(v)
}

// Repr renders v the way it appears inside a list: strings are
// quoted, nil is None, booleans are True/False, floats always
// carry a decimal point and maps list their entries sorted.
func Repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return quote(x)
	case bool:
		return reprBool(x)
	case []byte:
		return "b" + quote(string(x))
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return quote(rv.String())
	case reflect.Bool:
		return reprBool(rv.Bool())
	case reflect.Float32:
		return reprFloat(rv.Float(), 32)
	case reflect.Float64:
		return reprFloat(rv.Float(), 64)
	case reflect.Slice:
		if rv.IsNil() {
			return "[]"
		}
		return reprSequence(rv)
	case reflect.Array:
		return reprSequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "{}"
		}
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(
				entries,
				Repr(iter.Key().Interface())+": "+
					Repr(iter.Value().Interface()),
			)
		}
		sort.Strings(entries)
		return "{" + strings.Join(entries, ", ") + "}"
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "None"
		}
		return Repr(rv.Elem().Interface())
	}

	return fmt.Sprint(v)
}

func reprSequence(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = Repr(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func reprBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// reprFloat uses positional notation for exponents in [-4, 16)
// and scientific notation otherwise.
func reprFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, bits)
	exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quote wraps s in single quotes, or double quotes when s holds
// a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
