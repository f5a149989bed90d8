// Package sim aggregates grid state, enemy state, and a seeded RNG into a
// single simulation instance and drives it one tick at a time through a
// fixed phase ordering that makes (seed, action-sequence) -> trajectory
// bit-reproducible.
package sim

import (
	"gridcore/collision"
	"gridcore/constants"
	"gridcore/enemystate"
	"gridcore/gridstate"
	"gridcore/simrng"
)

// State is one simulation instance. It exclusively owns all of its arrays
// and its RNG; nothing here is shared across instances, and nothing here
// consults process-wide mutable state.
type State struct {
	Grid          *gridstate.State
	Enemies       *enemystate.State
	Tick          uint32
	SpawnInterval int
	rng           *simrng.Source
}

// New constructs a fresh simulation instance. spawnInterval <= 0 disables
// spawning entirely. Callers that want an unreproducible instance should
// use NewFromEntropy instead.
func New(spawnInterval int, seed int64) *State {
	return &State{
		Grid:          gridstate.New(),
		Enemies:       enemystate.New(),
		SpawnInterval: spawnInterval,
		rng:           simrng.New(seed),
	}
}

// NewFromEntropy constructs a fresh simulation instance seeded from OS
// entropy, for callers that do not need reproducibility.
func NewFromEntropy(spawnInterval int) *State {
	return &State{
		Grid:          gridstate.New(),
		Enemies:       enemystate.New(),
		SpawnInterval: spawnInterval,
		rng:           simrng.NewFromEntropy(),
	}
}

// Result is the tuple returned by Step.
type Result struct {
	Reward     float64
	Terminated bool
	Truncated  bool
}

// Step executes one simulation tick for the given action, following a
// fixed phase ordering:
//
//  1. tick cooldowns
//  2. arm pending walls
//  3. apply the action, if any and if GCD allows it
//  4. move enemies
//  5. detect + resolve collisions
//  6. check core breach
//  7. maybe spawn an enemy
//  8. compact the enemy pool
//  9. tally reward
//  10. advance the tick counter
//  11. compute termination flags
//  12. return the result
func (s *State) Step(action int) Result {
	s.Grid.TickCooldowns()
	s.Grid.ArmPendingWalls()

	if action != constants.NoOpAction && s.Grid.GCD == 0 {
		y, x := constants.DecodeAction(action)
		if s.Grid.PlaceWall(y, x) {
			s.Grid.ApplyCooldowns(y, x)
		}
	}

	s.Enemies.MoveEnemies()

	mask := collision.Detect(s.Grid, s.Enemies)
	killed, _ := collision.Resolve(s.Grid, s.Enemies, mask)

	breached := collision.DetectCoreBreach(s.Enemies)

	if s.SpawnInterval > 0 && int(s.Tick)%s.SpawnInterval == 0 {
		s.Enemies.SpawnEnemy(s.Tick, func() int { return s.rng.UniformInt(constants.Width) })
	}

	s.Enemies.Compact()

	reward := float64(killed)*constants.RewardEnemyKilled + constants.RewardTickSurvived
	if breached {
		reward += constants.RewardCoreBreach
	}

	s.Tick++

	return Result{
		Reward:     reward,
		Terminated: breached,
		Truncated:  s.Tick >= constants.MaxEpisodeTicks,
	}
}

// AliveEnemies returns the number of currently alive enemy slots.
func (s *State) AliveEnemies() int {
	n := 0
	for i := 0; i < constants.MaxEnemies; i++ {
		if s.Enemies.Alive[i] {
			n++
		}
	}
	return n
}

// ActionMask computes the advisory action-validity mask: bit 0 is always
// set (NO-OP is always legal), bit 1+y*W+x is set iff the cell is
// currently placeable. This is informative only — Step re-validates
// independently, so a mask built before a Step may disagree with that
// Step's outcome if state changed in between.
func (s *State) ActionMask() [constants.NumActions]bool {
	var mask [constants.NumActions]bool
	mask[constants.NoOpAction] = true
	for y := 0; y < constants.Height; y++ {
		for x := 0; x < constants.Width; x++ {
			valid := s.Grid.GCD == 0 && s.Grid.CellCD[y][x] == 0 && s.Grid.Grid[y][x] == 0
			mask[constants.EncodeAction(y, x)] = valid
		}
	}
	return mask
}
