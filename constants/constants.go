// Package constants is the single source of truth for grid dimensions,
// cooldown frame counts, and reward values used throughout the simulation
// core. No magic numbers should exist outside this package.
package constants

const (
	// Width is the number of grid columns.
	Width = 13
	// Height is the number of grid rows.
	Height = 9
	// HalfHeight is the height expressed in half-cells, the unit enemy
	// vertical position is tracked in.
	HalfHeight = 2 * Height
	// CoreYHalf is the half-cell row an enemy must reach to breach the core.
	CoreYHalf = 16

	// MaxEnemies is the capacity of the fixed enemy slot pool.
	MaxEnemies = 20

	// EnemySpeedHalf is the number of half-cells an alive enemy advances per tick.
	EnemySpeedHalf = 1

	// GCDFrames is the number of frames the global action cooldown is set to
	// on a successful wall placement.
	GCDFrames = 10
	// CellCDFrames is the number of frames a cell's per-cell cooldown is set
	// to on a successful wall placement.
	CellCDFrames = 150

	// DefaultWallHP is the hit points a freshly placed wall is given.
	DefaultWallHP = 1

	// DefaultSpawnInterval is the default number of ticks between enemy spawns.
	DefaultSpawnInterval = 30

	// MaxEpisodeTicks is the tick budget after which an episode truncates.
	MaxEpisodeTicks = 1000

	// NumActions is the size of the action space: one NO-OP plus one
	// placement action per grid cell.
	NumActions = Width*Height + 1

	// NoOpAction is the action value that performs no placement.
	NoOpAction = 0
)

// Reward values, applied by the step orchestrator once per tick.
const (
	RewardEnemyKilled  float64 = 1
	RewardTickSurvived float64 = 0
	RewardCoreBreach   float64 = -1
)

// EnemyType enumerates the enemy kinds known to the wire format. Only Drop
// is simulated by the core; the rest are declared for forward compatibility
// with the observation/learner layer and are never produced by SpawnEnemy.
type EnemyType uint8

const (
	EnemyDrop EnemyType = iota
	EnemyDrifter
	EnemySeeker
	EnemyFlood
)

// DecodeAction splits a placement action (1..NumActions-1) into its target
// cell. Callers must first check the action is not NoOpAction.
func DecodeAction(a int) (y, x int) {
	i := a - 1
	return i / Width, i % Width
}

// EncodeAction is the inverse of DecodeAction, offset by the NO-OP slot.
func EncodeAction(y, x int) int {
	return 1 + y*Width + x
}

// ObservationLength is the flattened-observation length: grid + wall_hp +
// wall_armed + cell_cd + gcd + action mask + enemy x/y_half interleaved +
// alive + type.
const ObservationLength = Width*Height*4 + 1 + NumActions + MaxEnemies*2 + MaxEnemies + MaxEnemies
