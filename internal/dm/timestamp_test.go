package dm

import (
	"encoding/json"
	"errors"
	"testing"
)

func textTimestamp(s string) Timestamp { return Timestamp{text: s} }

func millisTimestamp(ms float64) Timestamp { return Timestamp{millis: &ms} }

func TestTimestampCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   Timestamp
		want string
	}{
		{"space separated, no zone", textTimestamp("2024-01-01 10:00:00"), "2024-01-01T10:00:00.000Z"},
		{"rfc3339 utc", textTimestamp("2024-01-01T10:00:00Z"), "2024-01-01T10:00:00.000Z"},
		{"rfc3339 offset", textTimestamp("2024-01-01T12:00:00+02:00"), "2024-01-01T10:00:00.000Z"},
		{"rfc3339 fractional", textTimestamp("2024-01-01T10:00:00.123456Z"), "2024-01-01T10:00:00.123Z"},
		{"iso no zone", textTimestamp("2024-01-01T10:00:00"), "2024-01-01T10:00:00.000Z"},
		{"space with zone", textTimestamp("2024-01-01 11:00:00+01:00"), "2024-01-01T10:00:00.000Z"},
		{"date only", textTimestamp("2024-01-01"), "2024-01-01T00:00:00.000Z"},
		{"rfc1123", textTimestamp("Mon, 01 Jan 2024 10:00:00 GMT"), "2024-01-01T10:00:00.000Z"},
		{"surrounding space", textTimestamp("  2024-01-01 10:00:00 "), "2024-01-01T10:00:00.000Z"},
		{"unix millis", millisTimestamp(1704103200000), "2024-01-01T10:00:00.000Z"},
		{"negative millis", millisTimestamp(-86400000), "1969-12-31T00:00:00.000Z"},
		{"last representable year", millisTimestamp(253402300799999), "9999-12-31T23:59:59.999Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Canonical()
			if err != nil {
				t.Fatalf("Canonical() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Canonical() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimestampCanonicalInvalid(t *testing.T) {
	for _, in := range []string{"not a date", "2024-13-45 99:99:99", "   "} {
		_, err := textTimestamp(in).Canonical()
		if !errors.Is(err, ErrInvalidTimestamp) {
			t.Errorf("Canonical(%q) error = %v, want ErrInvalidTimestamp", in, err)
		}
	}

	millis := []float64{
		1e17,
		1e300,
		-1e17,
		8640000000000001,
		253402300800000, // 10000-01-01
		-62167219200001, // just before year 0
	}
	for _, ms := range millis {
		got, err := millisTimestamp(ms).Canonical()
		if !errors.Is(err, ErrInvalidTimestamp) {
			t.Errorf("Canonical(%v) = %q, %v; want ErrInvalidTimestamp", ms, got, err)
		}
	}
}

func TestTimestampWhitespaceIsPresentButInvalid(t *testing.T) {
	ts := textTimestamp("   ")
	if !ts.Present() {
		t.Fatal("whitespace timestamp should count as present")
	}
	if _, err := ts.Canonical(); !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("Canonical() error = %v, want ErrInvalidTimestamp", err)
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	var ts Timestamp

	if err := json.Unmarshal([]byte(`"2024-01-01 10:00:00"`), &ts); err != nil {
		t.Fatalf("string: %v", err)
	}
	if !ts.Present() || ts.text != "2024-01-01 10:00:00" {
		t.Errorf("unexpected string timestamp: %v", ts)
	}

	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("null: %v", err)
	}
	if ts.Present() {
		t.Error("null timestamp should not be present")
	}

	if err := json.Unmarshal([]byte(`{"nested":true}`), &ts); err == nil {
		t.Error("object timestamp should fail to decode")
	}
}
