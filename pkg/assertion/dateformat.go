package assertion

import (
	"strings"

	"github.com/itchyny/timefmt-go"
)

// matchesDateFormat reports whether date parses with the
// strptime pattern format. Text outside directives must match
// literally, the whole of date must be consumed and the day of
// the month must exist in the parsed month.
func matchesDateFormat(date, format string) bool {
	t, err := timefmt.Parse(date, format)
	if err != nil {
		return false
	}

	dayFormat, ok := dayOfYearFormat(format)
	if !ok {
		return true
	}
	// With %d read as %j the parsed day lands in January, so a
	// day that overflowed its month shows up as a mismatch.
	asYearDay, err := timefmt.Parse(date, dayFormat)
	if err != nil {
		return true
	}
	return asYearDay.YearDay() == t.Day()
}

// dayOfYearFormat rewrites every %d of format into %j. It
// reports false when the rewrite could read different digits
// than %d did: no %d, an explicit %j, or a %d directly followed
// by another directive or a digit.
func dayOfYearFormat(format string) (string, bool) {
	var (
		b     strings.Builder
		found bool
	)
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		switch d := format[i]; d {
		case 'j':
			return "", false
		case 'd':
			if i+1 < len(format) {
				next := format[i+1]
				if next == '%' || (next >= '0' && next <= '9') {
					return "", false
				}
			}
			b.WriteString("%j")
			found = true
		default:
			b.WriteByte('%')
			b.WriteByte(d)
		}
	}
	return b.String(), found
}
