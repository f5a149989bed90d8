// Package enemystate owns the fixed-capacity enemy slot pool: spawn,
// vertical movement, and the stable compaction that keeps alive slots in a
// contiguous, position-stable prefix for the observation layer.
package enemystate

import (
	"sort"

	"gridcore/constants"
)

// State is the struct-of-arrays enemy pool. All five arrays are always
// exactly constants.MaxEnemies long; there is no dynamic resizing.
//
// Invariants:
//   - after Compact, alive slots occupy [0, K) and dead slots [K, MaxEnemies)
//   - within [0, K), SpawnTick is non-decreasing
//   - !Alive[i] implies YHalf[i] == X[i] == 0, Type[i] == 0, SpawnTick[i] == 0
type State struct {
	YHalf     [constants.MaxEnemies]int16
	X         [constants.MaxEnemies]int16
	Alive     [constants.MaxEnemies]bool
	Type      [constants.MaxEnemies]constants.EnemyType
	SpawnTick [constants.MaxEnemies]uint32
}

// New returns an empty enemy pool.
func New() *State {
	return &State{}
}

// UniformX draws a uniform column in [0, Width) from the supplied source.
// Kept as a free function so spawn's only randomness touchpoint is explicit
// and easy to audit for isolation.
type UniformX func() int

// SpawnEnemy places a new Drop enemy in the first free slot, drawing its
// column from drawX. Returns false without mutation if the pool is full.
func (s *State) SpawnEnemy(currentTick uint32, drawX UniformX) bool {
	for i := 0; i < constants.MaxEnemies; i++ {
		if s.Alive[i] {
			continue
		}
		s.YHalf[i] = 0
		s.X[i] = int16(drawX())
		s.Alive[i] = true
		s.Type[i] = constants.EnemyDrop
		s.SpawnTick[i] = currentTick
		return true
	}
	return false
}

// MoveEnemies advances every alive enemy by EnemySpeedHalf half-cells. Dead
// slots are untouched. No bounds clamping is performed — breach detection
// interprets an out-of-range position, it is never clamped away.
func (s *State) MoveEnemies() {
	for i := 0; i < constants.MaxEnemies; i++ {
		if s.Alive[i] {
			s.YHalf[i] += constants.EnemySpeedHalf
		}
	}
}

// CellRow returns the grid row a half-cell position maps to for collision
// purposes: floor(yHalf / 2).
func CellRow(yHalf int16) int {
	return int(yHalf) / 2
}

// Kill marks slot i dead without compacting: every enemy that began the
// tick on an armed cell dies, regardless of what happens to its wall.
func (s *State) Kill(i int) {
	s.Alive[i] = false
}

// Compact produces a stable permutation of the slot arrays moving alive
// slots to a contiguous prefix in their original relative order, then
// zeroes the dead suffix. Implemented as a stable index sort keyed by
// SpawnTick for alive slots and math.MaxUint32 for dead slots, broken by
// original index via sort.SliceStable. Returns the alive count.
func (s *State) Compact() int {
	const deadKey = ^uint32(0)

	idx := make([]int, constants.MaxEnemies)
	for i := range idx {
		idx[i] = i
	}

	key := func(i int) uint32 {
		if s.Alive[i] {
			return s.SpawnTick[i]
		}
		return deadKey
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return key(idx[a]) < key(idx[b])
	})

	var next State
	alive := 0
	for dst, src := range idx {
		if !s.Alive[src] {
			break
		}
		next.YHalf[dst] = s.YHalf[src]
		next.X[dst] = s.X[src]
		next.Alive[dst] = true
		next.Type[dst] = s.Type[src]
		next.SpawnTick[dst] = s.SpawnTick[src]
		alive++
	}

	*s = next
	return alive
}
