// Package changelog computes field-level diffs between two snapshots of an
// employee record. All values are first reduced to a canonical string form so
// that storage artifacts (timezone-shifted dates, "1000" vs "1000.00") never
// show up as spurious changes.
package changelog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical rendering for all date-typed fields.
const DateLayout = "2006-01-02"

var dateFields = map[string]bool{
	"birth_date":  true,
	"start_date":  true,
	"resign_date": true,
}

var intFields = map[string]bool{
	"age":              true,
	"years_of_service": true,
}

// Normalize reduces a raw field value to its canonical string form. It never
// fails: malformed input degrades to the field's default ("" for dates and
// text, "0" for numerics) so an audit write is never blocked by bad data.
// Normalization is idempotent: Normalize(f, Normalize(f, v)) == Normalize(f, v).
func Normalize(field string, raw any) string {
	switch {
	case dateFields[field]:
		return normalizeDate(raw)
	case intFields[field]:
		return normalizeInt(raw)
	case field == "current_salary":
		return normalizeFloat(raw)
	default:
		return normalizeString(raw)
	}
}

// normalizeDate renders the civil date as seen in the value's own location.
// A time.Time is formatted directly in its location instead of being converted
// through UTC, so a local-midnight timestamp stored with an offset never
// shifts to the previous or next day.
func normalizeDate(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "null" {
			return ""
		}
		for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(DateLayout)
			}
		}
		return ""
	default:
		return ""
	}
}

func normalizeInt(raw any) string {
	switch v := raw.(type) {
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.Itoa(int(v))
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.Itoa(int(v))
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return strconv.Itoa(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.Itoa(int(f))
		}
		return "0"
	default:
		return "0"
	}
}

// normalizeFloat renders with the shortest representation that round-trips,
// so "1000", "1000.0" and 1000.00 all canonicalize to "1000".
func normalizeFloat(raw any) string {
	switch v := raw.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int64:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "0"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return "0"
	}
}

func normalizeString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseDate parses a form-submitted date into a calendar date, or nil when the
// input is empty or unparseable. The returned time is midnight in the parsed
// location so Normalize renders the same civil date back.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
			return &d
		}
	}
	return nil
}
