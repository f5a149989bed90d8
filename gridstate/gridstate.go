// Package gridstate owns the grid/wall state arrays and the operations that
// mutate them: placement, arming, and cooldown accounting. It is a
// struct-of-arrays over a fixed Height x Width grid, never an object graph —
// every operation here is meant to stay cheaply vectorizable.
package gridstate

import "gridcore/constants"

// State is the per-cell wall/cooldown state for the whole grid, plus the
// scalar global cooldown. All arrays are Height x Width, indexed [y][x].
//
// Invariants (must hold at the end of every tick):
//   - WallHP[y][x] > 0 iff Grid[y][x] == 1
//   - WallArmed[y][x] implies Grid[y][x] == 1
//   - WallPending[y][x] implies Grid[y][x] == 1 and !WallArmed[y][x]
//   - WallArmed and WallPending are disjoint
type State struct {
	Grid        [constants.Height][constants.Width]uint8
	WallHP      [constants.Height][constants.Width]uint8
	WallArmed   [constants.Height][constants.Width]bool
	WallPending [constants.Height][constants.Width]bool
	CellCD      [constants.Height][constants.Width]uint16
	GCD         uint16
}

// New returns a zero-initialized grid state: no walls, no cooldowns.
func New() *State {
	return &State{}
}

// InBounds reports whether (y, x) addresses a valid grid cell.
func InBounds(y, x int) bool {
	return y >= 0 && y < constants.Height && x >= 0 && x < constants.Width
}

// PlaceWall attempts to place a wall at (y, x). Validity predicates are
// evaluated in order; on the first failure no state is touched and false
// is returned. Placement alone does not set cooldowns — that is
// ApplyCooldowns' job, called separately by the step orchestrator so it can
// compose placement and cooldown application independently.
func (s *State) PlaceWall(y, x int) bool {
	if !InBounds(y, x) {
		return false
	}
	if s.GCD != 0 {
		return false
	}
	if s.CellCD[y][x] != 0 {
		return false
	}
	if s.Grid[y][x] == 1 {
		return false
	}

	s.Grid[y][x] = 1
	s.WallHP[y][x] = constants.DefaultWallHP
	s.WallPending[y][x] = true
	s.WallArmed[y][x] = false
	return true
}

// ArmPendingWalls promotes every pending wall to armed. This is the
// anti-triviality rule: a wall placed on tick t cannot kill enemies until
// this runs at the start of tick t+1.
func (s *State) ArmPendingWalls() {
	for y := 0; y < constants.Height; y++ {
		for x := 0; x < constants.Width; x++ {
			if s.WallPending[y][x] {
				s.WallArmed[y][x] = true
				s.WallPending[y][x] = false
			}
		}
	}
}

// ApplyCooldowns sets the global and per-cell cooldowns after a successful
// placement at (y, x). The caller is responsible for only invoking this
// when PlaceWall just returned true.
func (s *State) ApplyCooldowns(y, x int) {
	s.GCD = constants.GCDFrames
	s.CellCD[y][x] = constants.CellCDFrames
}

// TickCooldowns saturating-decrements GCD and every cell cooldown by one
// frame. A naive unsigned decrement on a zero counter would wrap to 65535;
// this clamps at zero instead.
func (s *State) TickCooldowns() {
	s.GCD = saturatingDec(s.GCD)
	for y := 0; y < constants.Height; y++ {
		for x := 0; x < constants.Width; x++ {
			s.CellCD[y][x] = saturatingDec(s.CellCD[y][x])
		}
	}
}

// DestroyWall clears every field of a destroyed wall cell to its empty
// state. Used by the collision resolver.
func (s *State) DestroyWall(y, x int) {
	s.Grid[y][x] = 0
	s.WallHP[y][x] = 0
	s.WallArmed[y][x] = false
	s.WallPending[y][x] = false
}

func saturatingDec(v uint16) uint16 {
	if v == 0 {
		return 0
	}
	return v - 1
}
