package dm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// CanonicalLayout is the stored timestamp format: UTC, millisecond precision.
const CanonicalLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidTimestamp is returned when a timestamp cannot be interpreted.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// maxEpochMillis bounds numeric timestamps to the range a JavaScript Date
// can hold (±100,000,000 days around the epoch).
const maxEpochMillis = 8.64e15

// Layouts tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
}

// Timestamp is the raw event time from the payload. It accepts a JSON string
// in one of several common layouts, or a JSON number of Unix milliseconds.
type Timestamp struct {
	text   string
	millis *float64
}

// UnmarshalJSON records the value without interpreting it; interpretation
// errors are reported by Canonical so callers can treat them as bad input.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp{text: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("timestamp must be a string or number: %w", err)
	}
	*t = Timestamp{millis: &f}
	return nil
}

// MarshalJSON writes the timestamp back in the form it was received.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.millis != nil {
		return json.Marshal(*t.millis)
	}
	if t.text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.text)
}

// Present reports whether a value was supplied. Empty strings and a zero
// epoch count as absent; whitespace does not, and fails later as invalid.
func (t Timestamp) Present() bool {
	if t.millis != nil {
		return *t.millis != 0
	}
	return t.text != ""
}

// Time interprets the timestamp. Results outside years 0000-9999 are
// rejected because CanonicalLayout cannot represent them.
func (t Timestamp) Time() (time.Time, error) {
	parsed, err := t.parse()
	if err != nil {
		return time.Time{}, err
	}
	if y := parsed.Year(); y < 0 || y > 9999 {
		return time.Time{}, fmt.Errorf("%w: year %d out of range", ErrInvalidTimestamp, y)
	}
	return parsed, nil
}

func (t Timestamp) parse() (time.Time, error) {
	if t.millis != nil {
		ms := *t.millis
		if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, fmt.Errorf("%w: %v out of range", ErrInvalidTimestamp, ms)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	s := strings.TrimSpace(t.text)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a recognized date/time", ErrInvalidTimestamp, s)
}

// Canonical returns the timestamp formatted with CanonicalLayout.
func (t Timestamp) Canonical() (string, error) {
	parsed, err := t.Time()
	if err != nil {
		return "", err
	}
	return parsed.Format(CanonicalLayout), nil
}
