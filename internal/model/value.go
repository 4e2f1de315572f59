package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts used for the textual form of temporal values.
const (
	TimestampLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
)

// Date is a calendar date without a time-of-day component.
type Date struct {
	time.Time
}

// NewDate truncates t to midnight UTC of its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(DateLayout, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON shadows the promoted time.Time encoder so dates stay date-only.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// FormatValue renders a record value with its default textual form. Nulls
// become the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(TimestampLayout)
	case Date:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// timestampLayouts are tried in order when parsing a timestamp string. The
// first matches what FormatValue writes; the others accept RFC 3339 and the
// fractional-second isoformat seen in older generated files.
var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTimestamp parses the textual timestamp forms the exporters and older
// dataset files produce. The result is always in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// AsTime extracts a point in time from a timestamp or date value.
func AsTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case Date:
		return val.Time, true
	case string:
		t, err := ParseTimestamp(val)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}

// AsFloat extracts a numeric value. Strings are not parsed: a numeric field
// loaded without a schema is already typed by the loader.
func AsFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	default:
		return 0, false
	}
}
