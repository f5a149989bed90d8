// Package simrng wraps the single seeded random source a simulation
// instance is allowed to consult. A simulation must never touch
// process-wide mutable state, so every instance here owns an explicit
// *rand.Rand and nothing in this module ever reaches for math/rand's
// default (global) source the way top-level rand.Int()-style calls do.
package simrng

import "math/rand"

// Source is a simulation's private random stream.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded from seed. Two Sources constructed with the
// same seed yield identical draw sequences; different seeds yield
// independent streams.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// NewFromEntropy returns a Source seeded from OS entropy via crypto/rand,
// for callers that want a fresh, unreproducible instance.
func NewFromEntropy() *Source {
	return &Source{r: rand.New(rand.NewSource(entropySeed()))}
}

// UniformInt returns a uniform draw in [0, n).
func (s *Source) UniformInt(n int) int {
	return s.r.Intn(n)
}
