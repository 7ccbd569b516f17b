package benchmark

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Zipfian range: spec.md §8 property 6 — Zipfian(min=5, max=10) and 100 000
// samples always land in [5,10], and the mode equals min (the skew favors
// the low end of the range).
func TestZipfianGeneratorRange(t *testing.T) {
	g := NewZipfianGeneratorRange(5, 10)
	rng := rand.New(rand.NewSource(11))

	const n = 100_000
	counts := make(map[uint64]int)
	for i := 0; i < n; i++ {
		v := g.Sample(rng)
		assert.GreaterOrEqual(t, v, uint64(5))
		assert.LessOrEqual(t, v, uint64(10))
		counts[v]++
	}

	var mode uint64
	var modeCount int
	for v, c := range counts {
		if c > modeCount {
			mode, modeCount = v, c
		}
	}
	assert.Equal(t, uint64(5), mode)
}

func TestZipfianGeneratorItemCountChangePanics(t *testing.T) {
	g := NewZipfianGeneratorRange(0, 9)
	rng := rand.New(rand.NewSource(12))
	assert.Panics(t, func() {
		g.next(11, rng)
	})
}

func TestZipfianGeneratorMeanPanics(t *testing.T) {
	g := NewZipfianGeneratorRange(0, 9)
	assert.Panics(t, func() {
		g.Mean()
	})
}
