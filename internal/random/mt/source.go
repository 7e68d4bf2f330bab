package mt

import (
	randv1 "math/rand"
	"math/rand/v2"
)

// Source adapts a Generator to the math/rand Source64 interface.
type Source struct {
	g Generator
}

// NewSource returns a math/rand source seeded with seed.
func NewSource(seed uint32) *Source {
	s := &Source{}
	s.g.Seed(seed)
	return s
}

// Seed reseeds the source with the low 32 bits of seed.
func (s *Source) Seed(seed int64) {
	s.g.Seed(uint32(seed))
}

// Int63 returns a non-negative 63-bit value.
func (s *Source) Int63() int64 {
	return int64(s.g.Uint64() >> 1)
}

// Uint64 returns two consecutive generator draws, high word first.
func (s *Source) Uint64() uint64 {
	return s.g.Uint64()
}

// Generator exposes the underlying stream.
func (s *Source) Generator() *Generator {
	return &s.g
}

// NewRand returns a math/rand/v2 Rand drawing from a Generator seeded with
// seed.
func NewRand(seed uint32) *rand.Rand {
	return rand.New(New(seed))
}

var (
	_ randv1.Source64 = (*Source)(nil)
	_ rand.Source     = (*Generator)(nil)
)
