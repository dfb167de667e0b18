package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a backend timestamp. The gateway sends either calendar components
// [year, month, day, hour, minute, second, nanosecond] (1-based month,
// trailing fields optional) or an opaque string.
type Date struct {
	parts []int
	raw   string
}

// DateOf builds an array-form Date.
func DateOf(parts ...int) Date {
	return Date{parts: append([]int(nil), parts...)}
}

// DateString builds a string-form Date.
func DateString(s string) Date {
	return Date{raw: s}
}

// UnmarshalJSON accepts an array of integers, a string or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*d = Date{}
		return nil
	case b[0] == '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("date array: %w", err)
		}
		*d = Date{parts: parts}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Date{raw: s}
		return nil
	default:
		return fmt.Errorf("date: unsupported json %s", b)
	}
}

// MarshalJSON writes the form the value was decoded from.
func (d Date) MarshalJSON() ([]byte, error) {
	switch {
	case d.parts != nil:
		return json.Marshal(d.parts)
	case d.raw != "":
		return json.Marshal(d.raw)
	default:
		return []byte("null"), nil
	}
}

// IsZero reports whether no date was sent.
func (d Date) IsZero() bool { return d.parts == nil && d.raw == "" }

// IsArray reports whether the date arrived in component form.
func (d Date) IsArray() bool { return d.parts != nil }

// Raw is the string form, empty for array dates.
func (d Date) Raw() string { return d.raw }

// Time converts the component form into a wall-clock time in loc, truncating
// sub-millisecond precision. ok is false for string dates and arrays with
// fewer than three components.
func (d Date) Time(loc *time.Location) (t time.Time, ok bool) {
	if len(d.parts) < 3 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	var c [7]int
	copy(c[:], d.parts)
	ms := c[6] / int(time.Millisecond)
	return time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], ms*int(time.Millisecond), loc), true
}
