package audit_test

import (
	"testing"
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

func TestNormalizeDecimal(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"10.50", "10.5"},
		{"10.5000", "10.5"},
		{"3.000", "3"},
		{"0.25", "0.25"},
		{"000.25", "0.25"},
		{"007", "7"},
		{"-0", "0"},
		{"-0.00", "0"},
		{"-12.30", "-12.3"},
		{"+4.20", "4.2"},
		{" 1.10 ", "1.1"},
		{".50", "0.5"},
		{"5.", "5"},
		{"", ""},
		{"abc", "abc"},
		{"1.2.3", "1.2.3"},
	}

	for _, c := range cases {
		if got := audit.NormalizeDecimal(c.in); got != c.want {
			t.Errorf("NormalizeDecimal(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDecimalEquivalence(t *testing.T) {
	// The whole point: differing spellings of the same value must not
	// register as changes.
	pairs := [][2]string{
		{"100.0", "100"},
		{"0.50", ".50"},
		{"-3.1400", "-3.14"},
	}

	for _, p := range pairs {
		if audit.NormalizeDecimal(p[0]) != audit.NormalizeDecimal(p[1]) {
			t.Errorf("NormalizeDecimal(%q) != NormalizeDecimal(%q)", p[0], p[1])
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	local := time.Date(2025, 3, 1, 13, 30, 0, 0, loc)
	utc := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	if audit.NormalizeTime(local) != audit.NormalizeTime(utc) {
		t.Errorf("equivalent instants normalize differently: %q vs %q",
			audit.NormalizeTime(local), audit.NormalizeTime(utc))
	}

	if got := audit.NormalizeTime(utc); got != "2025-03-01T12:30:00Z" {
		t.Errorf("NormalizeTime = %q, want 2025-03-01T12:30:00Z", got)
	}
}

func TestNormalizeTimePtr(t *testing.T) {
	if got := audit.NormalizeTimePtr(nil); got != "" {
		t.Errorf("NormalizeTimePtr(nil) = %q, want empty", got)
	}

	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := audit.NormalizeTimePtr(&ts); got != "2025-06-01T00:00:00Z" {
		t.Errorf("NormalizeTimePtr = %q", got)
	}
}
