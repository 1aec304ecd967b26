package assertion

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/stretchr/testify/assert"
)

// elements flattens a slice or array into []any. A nil list is
// empty. Anything else is a programming error and panics.
func elements(list any) []any {
	if list == nil {
		return nil
	}
	if items, ok := list.([]any); ok {
		return items
	}

	rv := reflect.ValueOf(list)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}

	panic(fmt.Sprintf("assertion: %T is not a list", list))
}

// valuesEqual reports deep equality in which numbers of any
// type compare by value, inside lists and maps too. Booleans
// are not numbers.
func valuesEqual(a, b any) bool {
	if assert.ObjectsAreEqual(a, b) {
		return true
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x.Cmp(y) == 0
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isSequence(av) && isSequence(bv):
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !valuesEqual(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case av.Kind() == reflect.Map && bv.Kind() == reflect.Map:
		if av.Len() != bv.Len() || !av.Type().Key().AssignableTo(bv.Type().Key()) {
			return false
		}
		iter := av.MapRange()
		for iter.Next() {
			w := bv.MapIndex(iter.Key())
			if !w.IsValid() || !valuesEqual(iter.Value().Interface(), w.Interface()) {
				return false
			}
		}
		return true
	}
	return false
}

func isSequence(v reflect.Value) bool {
	k := v.Kind()
	return (k == reflect.Slice || k == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8
}

// number returns v as an exact big.Float if v is an integer or
// a non-NaN float.
func number(v any) (*big.Float, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Float).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return new(big.Float).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return new(big.Float).SetFloat64(f), true
	}
	return nil, false
}

// containsItem reports membership by valuesEqual.
func containsItem(items []any, item any) bool {
	for _, it := range items {
		if valuesEqual(it, item) {
			return true
		}
	}
	return false
}

// missingItems returns every required item absent from items,
// in the order they were required.
func missingItems(items, required []any) []any {
	missing := []any{}
	for _, r := range required {
		if !containsItem(items, r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Truthy reports whether v counts as true: nil, false, numeric
// zero and empty strings, slices, maps and arrays are false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Map,
		reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	}
	return true
}
