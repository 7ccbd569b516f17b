package benchmark

import (
	"math/rand"
	"strconv"

	"github.com/sixafter/nanoid"
)

// fnvScramble is both the FNV-1a offset basis AND, per spec.md §4.3.1, the
// multiplier this scramble intentionally (and non-standardly) reuses in
// place of the real FNV prime. Matching it exactly is required for
// key-space interoperability with the reference implementation.
const fnvScramble uint64 = 0xcbf29ce484222325

// fnv1a64 scrambles a monotone uint64 into a well-spread 64-bit value so
// that key-chooser hot spots land on hot spots in storage's key space
// rather than in assignment order. See spec.md §4.3.1 for the exact,
// intentionally non-standard byte-at-a-time algorithm this must reproduce.
func fnv1a64(x uint64) uint64 {
	h := fnvScramble
	for i := 0; i < 8; i++ {
		h ^= x & 0xff
		x >>= 8
		h *= fnvScramble
	}
	return h
}

// dbKey renders a raw counter value into the decimal-string storage key
// used by CoreWorkload, hashing it through fnv1a64 first.
func dbKey(raw uint64) string {
	return strconv.FormatUint(fnv1a64(raw), 10)
}

// fieldValueAlphabet is the alphanumeric character set spec.md §3 requires
// for synthesized field values.
const fieldValueAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// seededReader adapts a math/rand.Rand into an io.Reader so that
// nanoid.Generator (which otherwise defaults to crypto/rand) can be driven
// deterministically from CoreWorkload's seeded PRNG.
type seededReader struct {
	rng *rand.Rand
}

func (r seededReader) Read(p []byte) (int, error) {
	return r.rng.Read(p)
}

// newFieldValueGenerator builds a nanoid.Generator that draws its entropy
// from rng, so --seed fully determines the synthesized field values.
func newFieldValueGenerator(rng *rand.Rand) (nanoid.Generator, error) {
	return nanoid.NewGenerator(
		nanoid.WithAlphabet(fieldValueAlphabet),
		nanoid.WithRandReader(seededReader{rng: rng}),
	)
}

// randomFieldValue synthesizes a length-n alphanumeric string using gen.
func randomFieldValue(gen nanoid.Generator, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	return gen.New(n)
}
