package runner

import (
	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// Collides reports whether an obstacle overlaps the player's box. Values
// exactly on the tolerance do not collide. Only positions at the end of the
// step are compared, so an obstacle moving more than two tolerances in one
// step can pass through the player.
func Collides(player, obstacle core.Vec3, tol config.ObstacleConfig) bool {
	return core.WithinTolerance(player, obstacle, tol.LateralTolerance, tol.LongitudinalTolerance)
}

// obstaclePass is the outcome of moving the obstacles for one step.
type obstaclePass struct {
	passed  int
	levelUp bool
	hit     bool
}

// moveObstacles advances every obstacle in spawn order. Each one is tested
// for a hit first, then for passing the player. The first hit ends the pass;
// obstacles after it are left untouched.
func (g *Game) moveObstacles(dz float64) obstaclePass {
	var res obstaclePass
	player := g.playerPos()

	g.pool.Each(func(o *Obstacle) bool {
		o.Pos.Z += dz

		if Collides(player, o.Pos, g.cfg.Obstacles) {
			res.hit = true
			return false
		}

		if o.Pos.Z > g.cfg.Obstacles.PassZ {
			g.pool.Release(o.Handle)
			res.passed++
			if g.addScore(g.cfg.Obstacles.Reward) {
				res.levelUp = true
			}
		}
		return true
	})

	g.pool.Compact()
	return res
}

func (g *Game) playerPos() core.Vec3 {
	return core.Vec3{X: g.lane.X(), Y: 0, Z: g.cfg.Player.Z}
}
