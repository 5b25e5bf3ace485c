package aim

import (
	"math"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// rewardHit scores a click at distance d inside the current target:
// a base bonus, an accuracy term for clicking near the center and a size
// term for small targets.
func (g *Game) rewardHit(r *core.Breakdown, d float64) {
	rw := g.cfg.Rewards
	accuracy := math.Max(0, 1-core.Ratio(d, g.target.R))
	size := core.Ratio(g.cfg.Target.MaxRadius-g.target.R, g.cfg.Target.MaxRadius)
	r.Add(core.CompHit, rw.HitBase+accuracy*rw.HitAccuracy+size*rw.HitSize)
}

func (g *Game) rewardMiss(r *core.Breakdown, d float64) {
	rw := g.cfg.Rewards
	r.Add(core.CompMiss, rw.MissBase-core.Ratio(d, g.diagonal())*rw.MissDistance)
}

// rewardShaping adds the per-tick survival and proximity terms, both
// boosted in survival mode.
func (g *Game) rewardShaping(r *core.Breakdown) {
	rw := g.cfg.Rewards
	survival := rw.Survival
	proximity := rw.Proximity * (1 - core.Ratio(g.distance, g.diagonal()))
	if g.cfg.Episode.RewardMode == config.AimModeSurvival {
		survival *= rw.SurvivalScale
		proximity *= rw.ProximityScale
	}
	r.Add(core.CompSurvival, survival)
	r.Add(core.CompProximity, proximity)
}

func (g *Game) diagonal() float64 {
	return core.Diagonal(g.cfg.Field.Width, g.cfg.Field.Height)
}
