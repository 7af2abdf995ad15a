// Package testutil provides seeded helpers for generating random sequences
// and patterns in tests and benchmarks.
package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Sequence generates a random sequence of length n over symbols.
func (r *RNG) Sequence(n int, symbols string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = symbols[r.rand.Intn(len(symbols))]
	}
	return out
}

// Substring extracts a random substring of length m from seq.
func (r *RNG) Substring(seq []byte, m int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := r.rand.Intn(len(seq) - m + 1)
	out := make([]byte, m)
	copy(out, seq[start:start+m])
	return out
}

// Mutate flips one random position of pattern to a different symbol,
// returning a copy.
func (r *RNG) Mutate(pattern []byte, symbols string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, len(pattern))
	copy(out, pattern)
	i := r.rand.Intn(len(out))
	for {
		s := symbols[r.rand.Intn(len(symbols))]
		if s != out[i] {
			out[i] = s
			break
		}
	}
	return out
}
