package wire

import (
	"bytes"
	"fmt"
	"time"
)

// timestampLayouts is the fallback chain for backend date strings, tried in
// order. The backend mixes ISO-8601 with and without fractional seconds,
// RFC 1123 (e.g. "Tue, 07 Oct 2025 09:25:22 GMT"), and on history records a
// naive microsecond stamp with no zone designator.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00", // ISO-8601 with fractional seconds
	"2006-01-02T15:04:05Z07:00",           // ISO-8601 without fractional seconds
	time.RFC1123,
	"2006-01-02T15:04:05.999999", // naive backend stamp, assumed UTC
}

// Timestamp is a time.Time that decodes from any of the backend's date
// representations. An unrecognized non-null string is a hard decode error.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON decodes the timestamp, treating null as the zero value
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	s, ok := unquote(data)
	if !ok {
		return fmt.Errorf("timestamp is not a JSON string: %s", data)
	}
	parsed, ok := ParseBackendTime(s)
	if !ok {
		return fmt.Errorf("unrecognized date format: %q", s)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON encodes the timestamp as ISO-8601 UTC
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// ParseBackendTime parses a backend date string through the fallback chain.
// Callers that tolerate malformed stamps (history records) use this directly
// instead of the hard-failing Timestamp type.
func ParseBackendTime(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
