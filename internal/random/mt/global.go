package mt

import (
	"log"
	"sync"

	"github.com/louisbranch/twister/internal/random"
)

// defaultGenerator backs the package-level convenience functions.
var defaultGenerator struct {
	mu sync.Mutex
	g  *Generator
}

// newSeed is swapped in tests.
var newSeed = random.NewSeed

// locked runs fn with the default generator, seeding it on first use.
func locked(fn func(*Generator)) {
	defaultGenerator.mu.Lock()
	defer defaultGenerator.mu.Unlock()

	if defaultGenerator.g == nil {
		seed, err := newSeed()
		if err != nil {
			log.Printf("mt: default generator seed: %v; using %d", err, DefaultSeed)
			seed = DefaultSeed
		}
		defaultGenerator.g = New(seed)
	}
	fn(defaultGenerator.g)
}

// Uint32 returns the next value from the process-wide generator.
// It is safe for concurrent use.
func Uint32() uint32 {
	var v uint32
	locked(func(g *Generator) { v = g.Uint32() })
	return v
}

// Float64 returns the next value in [0, 1] from the process-wide generator.
// It is safe for concurrent use.
func Float64() float64 {
	var v float64
	locked(func(g *Generator) { v = g.Float64() })
	return v
}

// Reseed resets the process-wide generator to a known seed.
func Reseed(seed uint32) {
	defaultGenerator.mu.Lock()
	defer defaultGenerator.mu.Unlock()

	if defaultGenerator.g == nil {
		defaultGenerator.g = New(seed)
		return
	}
	defaultGenerator.g.Seed(seed)
}
