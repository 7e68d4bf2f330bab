package mt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	snapshotPrefix   = "mt19937:"
	unseededCursor   = 0xFFFFFFFF
	snapshotSize     = len(snapshotPrefix) + 4 + StateSize*4
	snapshotStateOff = len(snapshotPrefix) + 4
)

// ErrInvalidSnapshot indicates bytes that do not decode to a generator.
var ErrInvalidSnapshot = errors.New("invalid generator snapshot")

// MarshalBinary encodes the generator so that a later UnmarshalBinary resumes
// the exact same stream.
func (g *Generator) MarshalBinary() ([]byte, error) {
	return g.AppendBinary(make([]byte, 0, snapshotSize))
}

// AppendBinary appends the MarshalBinary encoding of g to b.
func (g *Generator) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, snapshotPrefix...)
	cursor := uint32(unseededCursor)
	if g.seeded {
		cursor = uint32(g.cursor)
	}
	b = binary.BigEndian.AppendUint32(b, cursor)
	for _, word := range g.state {
		b = binary.BigEndian.AppendUint32(b, word)
	}
	return b, nil
}

// UnmarshalBinary restores a generator encoded by MarshalBinary.
func (g *Generator) UnmarshalBinary(data []byte) error {
	if len(data) != snapshotSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSnapshot, len(data), snapshotSize)
	}
	if string(data[:len(snapshotPrefix)]) != snapshotPrefix {
		return fmt.Errorf("%w: missing %q prefix", ErrInvalidSnapshot, snapshotPrefix)
	}
	cursor := binary.BigEndian.Uint32(data[len(snapshotPrefix):])
	if cursor != unseededCursor && cursor > StateSize {
		return fmt.Errorf("%w: cursor %d out of range", ErrInvalidSnapshot, cursor)
	}

	var state [StateSize]uint32
	for i := range state {
		off := snapshotStateOff + i*4
		state[i] = binary.BigEndian.Uint32(data[off : off+4])
	}

	g.state = state
	if cursor == unseededCursor {
		g.cursor = 0
		g.seeded = false
		return nil
	}
	g.cursor = int(cursor)
	g.seeded = true
	return nil
}
