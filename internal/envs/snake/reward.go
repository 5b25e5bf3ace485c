package snake

import (
	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// shape computes the tick reward. A terminal tick carries only the death
// penalty.
func (g *Game) shape(ate bool) core.Breakdown {
	var r core.Breakdown
	rw := g.cfg.Rewards

	if g.terminal {
		r.Add(core.CompTerminal, rw.Death)
		return r
	}

	if ate {
		bonus := rw.Food
		if g.cfg.Episode.RewardMode == config.SnakeModeLength {
			bonus += float64(len(g.snake))
		}
		r.Add(core.CompHit, bonus)
		g.prevDistance = g.distanceToFood()
		return r
	}

	d := g.distanceToFood()
	if d < g.prevDistance {
		r.Add(core.CompProximity, rw.Closer)
	} else {
		r.Add(core.CompProximity, rw.Farther)
	}
	g.prevDistance = d
	r.Add(core.CompSurvival, rw.Survival)
	return r
}
