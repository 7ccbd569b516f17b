package benchmark

import (
	"math/rand"
	"sync/atomic"
)

// CounterGenerator hands out start, start+1, start+2, ... under concurrent
// sampling. Every value is unique; there are no gaps and no repeats.
type CounterGenerator struct {
	next atomic.Uint64
}

// NewCounterGenerator returns a CounterGenerator whose first Sample call
// returns start.
func NewCounterGenerator(start uint64) *CounterGenerator {
	c := &CounterGenerator{}
	c.next.Store(start)
	return c
}

// Sample atomically returns the next value in the sequence.
func (c *CounterGenerator) Sample(_ *rand.Rand) uint64 {
	return c.next.Add(1) - 1
}

// Peek returns the value that the next Sample call would return, without
// consuming it. Intended for diagnostics only.
func (c *CounterGenerator) Peek() uint64 {
	return c.next.Load()
}
