package audit

import (
	"strings"
	"time"
)

// NormalizeDecimal canonicalizes a decimal string so equivalent values
// compare equal in diffs regardless of how the caller spelled them:
// "10.50", "10.5000" and "10.5" all normalize to "10.5", "3.000" to "3",
// ".50" to "0.5", and "-0" to "0". Strings that do not look like decimals
// are returned unchanged rather than guessed at.
func NormalizeDecimal(s string) string {
	orig := s

	s = strings.TrimSpace(s)
	if s == "" {
		return orig
	}

	neg := false

	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return orig
	}

	if intPart != "" && !isDigits(intPart) {
		return orig
	}

	if hasFrac && fracPart != "" && !isDigits(fracPart) {
		return orig
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	fracPart = strings.TrimRight(fracPart, "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}

	if neg && out != "0" {
		out = "-" + out
	}

	return out
}

// NormalizeTime canonicalizes a timestamp to UTC RFC3339 (nanoseconds kept
// only when present) so equivalent instants in different zones or
// precisions do not register as spurious changes.
func NormalizeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NormalizeTimePtr is NormalizeTime for nullable timestamps; nil yields the
// empty representation.
func NormalizeTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}

	return NormalizeTime(*t)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
