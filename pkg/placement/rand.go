package placement

import "math/rand/v2"

// Rand is the random source used for tile and rotation draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// NewRand returns a PCG source seeded with seed. The result is not safe for
// concurrent use; give each Place call its own source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
