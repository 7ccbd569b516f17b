package benchmark

import "math/rand"

// Generator produces samples of type T from a caller-supplied PRNG. A
// Generator must be safe for concurrent use: it is either immutable after
// construction, holds only atomic state, or is serialized by its caller.
type Generator[T any] interface {
	Sample(rng *rand.Rand) T
}

// NumberGenerator is a Generator that can additionally report the mean of
// the distribution it samples from. Not every numeric generator can do this
// cheaply (ZipfianGenerator cannot) so it is a separate, narrower contract.
type NumberGenerator[T any] interface {
	Generator[T]
	Mean() T
}
