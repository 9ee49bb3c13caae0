// Package rng provides the deterministic random streams used by the simulation.
//
// Two streams exist per run: the seeded stream drives population layout and is
// reproducible from the run seed; the gameplay stream drives transient choices
// such as guardian spread and is seeded from the clock.
package rng

import "math/rand"

// RNG wraps math/rand.Rand and counts the draws made from it.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the stream was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Float32 returns a random float in [0, max).
func (r *RNG) Float32(max float32) float32 {
	r.pos++
	return r.src.Float32() * max
}

// Range returns a random float in [min, max).
func (r *RNG) Range(min, max float32) float32 {
	return min + r.Float32(max-min)
}

// Test returns true with the given probability.
func (r *RNG) Test(chance float32) bool {
	return r.Float32(1) < chance
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.pos++
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
