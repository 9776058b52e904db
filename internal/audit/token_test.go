package audit_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
)

func TestTokenRoundTrip(t *testing.T) {
	for _, tok := range []audit.Token{audit.ZeroToken, audit.FirstToken, 42, 1 << 40} {
		parsed, err := audit.ParseToken(tok.String())
		if err != nil {
			t.Fatalf("ParseToken(%s): %v", tok, err)
		}
		if parsed != tok {
			t.Errorf("round trip = %d, want %d", parsed, tok)
		}
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not-a-token!!", "AAAA", "aGVsbG8gd29ybGQgdG9v"} {
		if _, err := audit.ParseToken(s); !errors.Is(err, audit.ErrBadToken) {
			t.Errorf("ParseToken(%q) err = %v, want ErrBadToken", s, err)
		}
	}
}

func TestTokenNextIsDistinct(t *testing.T) {
	seen := make(map[audit.Token]bool)
	tok := audit.FirstToken

	for i := 0; i < 100; i++ {
		if seen[tok] {
			t.Fatalf("token %s repeated after %d advances", tok, i)
		}
		seen[tok] = true
		tok = tok.Next()
	}
}

func TestTokenJSON(t *testing.T) {
	data, err := json.Marshal(audit.Token(7))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var tok audit.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if tok != 7 {
		t.Errorf("token = %d, want 7", tok)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &tok); err == nil {
		t.Error("Unmarshal of bogus token succeeded, want error")
	}
}
