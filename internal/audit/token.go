package audit

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Token is the optimistic-concurrency version attached to every tracked
// entity row. Internally it is a per-row monotonic counter guarded by a
// compare-and-swap write; on the wire it is an opaque base64 string that
// clients must echo back unmodified on their next update. Equality is the
// only operation callers may rely on.
type Token uint64

// ZeroToken is the token of an entity that does not exist yet.
const ZeroToken Token = 0

// FirstToken is the token issued by a successful create.
const FirstToken Token = 1

// ErrBadToken indicates a version string that was not produced by this
// service. Absence or corruption of the token is a client error.
var ErrBadToken = errors.New("malformed version token")

// Next returns the token issued by the commit that follows t.
func (t Token) Next() Token { return t + 1 }

// String encodes the token in its opaque wire form.
func (t Token) String() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t))

	return base64.RawURLEncoding.EncodeToString(buf[:])
}

// ParseToken decodes a wire-form token. An empty or undecodable string
// returns ErrBadToken.
func ParseToken(s string) (Token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(raw) != 8 {
		return ZeroToken, fmt.Errorf("%w: %q", ErrBadToken, s)
	}

	return Token(binary.BigEndian.Uint64(raw)), nil
}

// MarshalJSON encodes the token as its opaque wire string.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the opaque wire string.
func (t *Token) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseToken(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
