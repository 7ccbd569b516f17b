package benchmark

import "math/rand"

// UniformLongGenerator samples uniformly from the inclusive range
// [lowerBound, upperBound].
type UniformLongGenerator struct {
	lowerBound uint64
	upperBound uint64
}

// NewUniformLongGenerator constructs a UniformLongGenerator over [lo, hi].
func NewUniformLongGenerator(lo, hi uint64) *UniformLongGenerator {
	if hi < lo {
		panic("benchmark: uniform generator upper bound below lower bound")
	}
	return &UniformLongGenerator{lowerBound: lo, upperBound: hi}
}

func (g *UniformLongGenerator) Sample(rng *rand.Rand) uint64 {
	span := g.upperBound - g.lowerBound + 1
	return g.lowerBound + rng.Uint64()%span
}

func (g *UniformLongGenerator) Mean() uint64 {
	return (g.lowerBound + g.upperBound) / 2
}
