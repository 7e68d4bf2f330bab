// Package mt implements a 32-bit Mersenne Twister (MT19937) pseudo-random
// number generator with Knuth's linear congruential seeding.
//
// A Generator is deterministic: two generators seeded with the same value
// produce identical output streams. It is not safe for concurrent use and is
// not suitable for cryptographic purposes. Callers that need a stream per
// goroutine should construct one Generator each; callers that need a shared
// stream should use the package-level functions, which serialize access.
package mt

const (
	// StateSize is the number of 32-bit words in the state vector.
	StateSize = 624
	// shift is the distance between mixed words during a twist.
	shift = 397

	upperMask = 0x80000000
	lowerMask = 0x7fffffff
	matrixA   = 0x9908b0df

	temperingMaskB = 0x9d2c5680
	temperingMaskC = 0xefc60000

	// seedMultiplier is line 25 of Table 1 in Knuth, TAOCP Vol. 2 (2nd ed.), p. 102.
	seedMultiplier = 6069

	// DefaultSeed is used when a Generator is drawn from before it was seeded.
	DefaultSeed uint32 = 4357
)

// mag01[x] = x * matrixA for x in {0, 1}.
var mag01 = [2]uint32{0, matrixA}

// Generator holds the state vector and read cursor of one MT19937 stream.
//
// The zero value is an unseeded generator; the first draw seeds it with
// DefaultSeed.
type Generator struct {
	state  [StateSize]uint32
	cursor int
	seeded bool
}

// New returns a Generator seeded with seed.
func New(seed uint32) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// Seed resets the generator state from seed.
//
// Every seed is accepted, including zero. A zero seed produces an all-zero
// state and therefore an all-zero output stream.
func (g *Generator) Seed(seed uint32) {
	g.state[0] = seed
	for i := 1; i < StateSize; i++ {
		g.state[i] = seedMultiplier * g.state[i-1]
	}
	// The first draw after seeding regenerates the whole vector.
	g.cursor = StateSize
	g.seeded = true
}

// Seeded reports whether Seed has been called, directly or by the
// DefaultSeed fallback.
func (g *Generator) Seeded() bool {
	return g.seeded
}

// Cursor returns the index of the next state word to be tempered.
// A value of StateSize means the next draw twists first.
func (g *Generator) Cursor() int {
	if !g.seeded {
		return StateSize
	}
	return g.cursor
}

// State returns a copy of the state vector.
func (g *Generator) State() [StateSize]uint32 {
	return g.state
}

// Uint32 returns the next value in the sequence.
func (g *Generator) Uint32() uint32 {
	if !g.seeded {
		g.Seed(DefaultSeed)
	}
	if g.cursor >= StateSize {
		g.twist()
	}

	y := g.state[g.cursor]
	g.cursor++
	return temper(y)
}

// Float64 returns the next value scaled into the closed interval [0, 1].
//
// The divisor is 2^32-1, so 1.0 is returned exactly when the underlying draw
// is 0xFFFFFFFF.
func (g *Generator) Float64() float64 {
	return float64(g.Uint32()) / float64(0xFFFFFFFF)
}

// Uint64 combines two consecutive draws, the first supplying the high word.
func (g *Generator) Uint64() uint64 {
	hi := uint64(g.Uint32())
	lo := uint64(g.Uint32())
	return hi<<32 | lo
}

// Read fills p with draws in little-endian byte order. It always returns
// len(p) and a nil error. Bytes left over from a partial word are discarded.
func (g *Generator) Read(p []byte) (int, error) {
	n := len(p)
	for len(p) >= 4 {
		v := g.Uint32()
		p[0] = byte(v)
		p[1] = byte(v >> 8)
		p[2] = byte(v >> 16)
		p[3] = byte(v >> 24)
		p = p[4:]
	}
	if len(p) > 0 {
		v := g.Uint32()
		for i := range p {
			p[i] = byte(v)
			v >>= 8
		}
	}
	return n, nil
}

// twist regenerates all StateSize words in place and rewinds the cursor.
func (g *Generator) twist() {
	mt := &g.state
	var y uint32

	k := 0
	for ; k < StateSize-shift; k++ {
		y = mt[k]&upperMask | mt[k+1]&lowerMask
		mt[k] = mt[k+shift] ^ y>>1 ^ mag01[y&1]
	}
	for ; k < StateSize-1; k++ {
		y = mt[k]&upperMask | mt[k+1]&lowerMask
		mt[k] = mt[k+shift-StateSize] ^ y>>1 ^ mag01[y&1]
	}
	y = mt[StateSize-1]&upperMask | mt[0]&lowerMask
	mt[StateSize-1] = mt[shift-1] ^ y>>1 ^ mag01[y&1]

	g.cursor = 0
}

func temper(y uint32) uint32 {
	y ^= y >> 11
	y ^= y << 7 & temperingMaskB
	y ^= y << 15 & temperingMaskC
	y ^= y >> 18
	return y
}
