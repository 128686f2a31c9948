package present

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key is the 128-bit identifier under which extensions attach data to an
// Object. Keys are plain byte values: two Keys are equal exactly when all
// 16 bytes match. Extensions generate one Key per concern and reuse it for
// every object they attach to.
type Key [16]byte

// KeyFromWords builds a Key from two 64-bit halves in little-endian byte
// order. This matches the numeric identity returned by [Key.Words], so a
// Key can round-trip across an ABI boundary that only carries integers.
func KeyFromWords(lo, hi uint64) Key {
	var k Key
	binary.LittleEndian.PutUint64(k[0:8], lo)
	binary.LittleEndian.PutUint64(k[8:16], hi)
	return k
}

// Words returns the Key as two 64-bit halves in little-endian byte order.
func (k Key) Words() (lo, hi uint64) {
	return binary.LittleEndian.Uint64(k[0:8]), binary.LittleEndian.Uint64(k[8:16])
}

// ParseKey parses a Key from its canonical textual form
// "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" (case-insensitive hex).
// Surrounding braces are accepted and ignored.
func ParseKey(s string) (Key, error) {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	var k Key
	if len(s) != 36 {
		return k, fmt.Errorf("present: malformed key %q: need 36 characters, have %d", s, len(s))
	}
	for _, i := range [...]int{8, 13, 18, 23} {
		if s[i] != '-' {
			return k, fmt.Errorf("present: malformed key %q: missing separator at %d", s, i)
		}
	}

	hexOnly := s[0:8] + s[9:13] + s[14:18] + s[19:23] + s[24:36]
	raw, err := hex.DecodeString(hexOnly)
	if err != nil {
		return k, fmt.Errorf("present: malformed key %q: %w", s, err)
	}
	copy(k[:], raw)
	return k, nil
}

// MustParseKey is like ParseKey but panics on malformed input.
// Intended for package-level Key constants.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical textual form of the Key.
func (k Key) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", k[0:4], k[4:6], k[6:8], k[8:10], k[10:16])
}

// IsZero reports whether the Key is the all-zero value.
func (k Key) IsZero() bool {
	return k == Key{}
}
