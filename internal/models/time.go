package models

import (
	"fmt"
	"time"

	"github.com/ravlik/mealdeck/internal/apperr"
)

// Timestamp layouts accepted when parsing stored text. SQLite has no native
// time type, so rows written by earlier tooling may carry either form.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a raw storage value into an optional timestamp.
// Accepted shapes: nil (absent), time.Time, string or []byte in ISO-8601
// form. A present but unparseable string yields ErrMalformedTimestamp; any
// other shape yields ErrUnexpectedType. Absent and malformed are distinct
// states and must stay that way.
func ParseTimestamp(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	case string:
		return parseTimestampText(t)
	case []byte:
		return parseTimestampText(string(t))
	default:
		return nil, fmt.Errorf("%w: %T", apperr.ErrUnexpectedType, v)
	}
}

func parseTimestampText(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", apperr.ErrMalformedTimestamp, s)
}

// FormatTimestamp renders an optional timestamp into its canonical stored
// text form, or nil when absent.
func FormatTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
