package benchmark

import "math/rand"

// ConstantGenerator always returns the same value. It is used wherever a
// Generator is required but the caller only needs a scalar.
type ConstantGenerator[T any] struct {
	value T
}

// NewConstantGenerator returns a ConstantGenerator that always samples v.
func NewConstantGenerator[T any](v T) *ConstantGenerator[T] {
	return &ConstantGenerator[T]{value: v}
}

func (g *ConstantGenerator[T]) Sample(_ *rand.Rand) T {
	return g.value
}

func (g *ConstantGenerator[T]) Mean() T {
	return g.value
}
