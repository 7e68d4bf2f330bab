// Package random provides seed helpers for the deterministic generators.
//
// NewSeed draws from crypto/rand so that a host program can start a
// reproducible stream without choosing a value itself; the seed should be
// reported back to the user so the stream can be replayed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSeed indicates a seed string that is not a 32-bit unsigned integer.
var ErrInvalidSeed = errors.New("seed must be an unsigned 32-bit integer")

// NewSeed generates a random 32-bit seed using crypto/rand.
func NewSeed() (uint32, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

// ParseSeed parses a decimal or 0x-prefixed hexadecimal seed. Leading zeros
// are decimal, so "0042" is 42.
func ParseSeed(value string) (uint32, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidSeed)
	}
	digits, base := value, 10
	if rest, ok := strings.CutPrefix(value, "0x"); ok {
		digits, base = rest, 16
	} else if rest, ok := strings.CutPrefix(value, "0X"); ok {
		digits, base = rest, 16
	}
	parsed, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeed, value)
	}
	return uint32(parsed), nil
}
