package sim

import "gridcore/constants"

// Observation is the flattened layout an RL collaborator consumes.
// Building it isn't strictly the simulation core's job, but the core owns
// every array a caller needs, so composing them here saves every caller
// from re-deriving the same concatenation.
type Observation struct {
	Grid       [constants.Height * constants.Width]float32
	WallHP     [constants.Height * constants.Width]float32
	WallArmed  [constants.Height * constants.Width]float32
	CellCD     [constants.Height * constants.Width]float32
	GCD        float32
	ActionMask [constants.NumActions]float32
	EnemyXY    [constants.MaxEnemies * 2]float32
	Alive      [constants.MaxEnemies]float32
	Type       [constants.MaxEnemies]float32
}

// Observe flattens the current state into the documented observation
// layout. Total scalar count equals constants.ObservationLength.
func (s *State) Observe() Observation {
	var obs Observation

	for y := 0; y < constants.Height; y++ {
		for x := 0; x < constants.Width; x++ {
			i := y*constants.Width + x
			obs.Grid[i] = float32(s.Grid.Grid[y][x])
			obs.WallHP[i] = float32(s.Grid.WallHP[y][x])
			if s.Grid.WallArmed[y][x] {
				obs.WallArmed[i] = 1
			}
			obs.CellCD[i] = float32(s.Grid.CellCD[y][x])
		}
	}
	obs.GCD = float32(s.Grid.GCD)

	mask := s.ActionMask()
	for i, v := range mask {
		if v {
			obs.ActionMask[i] = 1
		}
	}

	for i := 0; i < constants.MaxEnemies; i++ {
		obs.EnemyXY[2*i] = float32(s.Enemies.X[i])
		obs.EnemyXY[2*i+1] = float32(s.Enemies.YHalf[i])
		if s.Enemies.Alive[i] {
			obs.Alive[i] = 1
		}
		obs.Type[i] = float32(s.Enemies.Type[i])
	}

	return obs
}
