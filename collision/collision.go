// Package collision implements the vectorized detect/resolve/breach
// pipeline. Detection and resolution are split so the step orchestrator
// can observe the collision mask independently of its resolution, and so
// tests can drive the pair directly.
package collision

import (
	"gridcore/constants"
	"gridcore/enemystate"
	"gridcore/gridstate"
)

// Mask is a per-slot collision bitmask: Mask[i] is true iff enemy slot i
// began this tick on an armed wall cell.
type Mask [constants.MaxEnemies]bool

// Detect returns, for every alive enemy, whether its current cell (its
// half-cell position floored to a row) holds an armed wall. A pending
// (placed-this-tick, not yet armed) wall never contributes.
func Detect(grid *gridstate.State, enemies *enemystate.State) Mask {
	var mask Mask
	for i := 0; i < constants.MaxEnemies; i++ {
		if !enemies.Alive[i] {
			continue
		}
		cy := enemystate.CellRow(enemies.YHalf[i])
		cx := int(enemies.X[i])
		if !gridstate.InBounds(cy, cx) {
			continue
		}
		mask[i] = grid.WallArmed[cy][cx]
	}
	return mask
}

// Resolve kills every masked enemy and applies stacked damage to the walls
// they stood on, destroying any wall whose accumulated damage meets or
// exceeds its hit points. Damage application and death marking are
// simultaneous: the iteration order over mask never affects the outcome,
// and every enemy that began the tick on an armed cell dies even if that
// cell's wall is destroyed by another coincident enemy.
func Resolve(grid *gridstate.State, enemies *enemystate.State, mask Mask) (enemiesKilled, wallsDestroyed int) {
	var damage [constants.Height][constants.Width]int32

	for i := 0; i < constants.MaxEnemies; i++ {
		if !mask[i] {
			continue
		}
		cy := enemystate.CellRow(enemies.YHalf[i])
		cx := int(enemies.X[i])
		damage[cy][cx]++
		enemies.Kill(i)
		enemiesKilled++
	}

	for y := 0; y < constants.Height; y++ {
		for x := 0; x < constants.Width; x++ {
			d := damage[y][x]
			if d <= 0 {
				continue
			}
			hp := int32(grid.WallHP[y][x])
			if d >= hp {
				grid.DestroyWall(y, x)
				wallsDestroyed++
				continue
			}
			grid.WallHP[y][x] = uint8(hp - d)
		}
	}

	return enemiesKilled, wallsDestroyed
}

// DetectCoreBreach reports whether any alive enemy has reached or passed
// the core row. A single breach terminates the episode.
func DetectCoreBreach(enemies *enemystate.State) bool {
	for i := 0; i < constants.MaxEnemies; i++ {
		if enemies.Alive[i] && enemies.YHalf[i] >= constants.CoreYHalf {
			return true
		}
	}
	return false
}
