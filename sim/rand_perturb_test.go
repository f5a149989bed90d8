package sim

import "math/rand"

// perturbGlobalRand exercises the process-wide math/rand source so
// TestRNGIsolationFromGlobalState can assert a seeded simulation's private
// stream is unaffected by it.
func perturbGlobalRand() {
	_ = rand.Int()
}
