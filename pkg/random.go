package pkg

import "math/rand/v2"

// Rand is the pseudo-random source injected into every generator.
type Rand interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence replays a fixed list of values, cycling when exhausted. Each value
// is reduced modulo n so any list is usable with any bound.
type Sequence struct {
	values []int
	pos    int
}

// NewSequence creates a Sequence. With no values it always returns 0.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// IntN implements Rand.
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("pkg: IntN called with non-positive bound")
	}

	if len(s.values) == 0 {
		return 0
	}

	v := s.values[s.pos%len(s.values)]
	s.pos++

	v %= n
	if v < 0 {
		v += n
	}

	return v
}
