package catcher

import (
	"math"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
)

// shape turns the events of one tick into reward components.
func (g *Game) shape(ev events) core.Breakdown {
	var r core.Breakdown
	rw := g.cfg.Rewards

	r.Add(core.CompHit, float64(ev.caught)*rw.Catch)
	r.Add(core.CompMiss, float64(ev.missed)*rw.Miss)
	if ev.bombHit {
		r.Add(core.CompTerminal, rw.Bomb)
	}

	r.Add(core.CompProximity, g.alignment()*rw.Alignment)
	if ev.moved {
		r.Add(core.CompMovement, rw.Movement)
	}
	if g.basket.Y < g.cfg.Field.Height-g.cfg.Basket.RegionTop {
		r.Add(core.CompRegion, rw.Region)
	}

	r.Add(core.CompSurvival, rw.Survival)
	if !g.terminal {
		r.Add(core.CompSurvival, rw.AliveBonus)
	}
	r.Add(core.CompHazard, float64(g.bombsNear(rw.BombRadius))*rw.BombProximity)

	switch g.cfg.Episode.RewardMode {
	case config.PersonaSurvivor:
		if g.terminal {
			r.Add(core.CompPersona, rw.SurvivorDeath)
		} else {
			r.Add(core.CompPersona, rw.SurvivorAlive)
		}
	case config.PersonaCollector:
		r.Add(core.CompPersona, rw.CollectorScale*float64(g.score))
	}
	return r
}

// alignment is 1 when the basket sits under the highest fruit and falls off
// linearly to 0 at half the field width.
func (g *Game) alignment() float64 {
	t := g.highestFruit()
	if t < 0 {
		return 0
	}
	bx, _ := g.basket.Center()
	fx, _ := g.fruits[t].Center()
	half := g.cfg.Field.Width / 2
	if half <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(fx-bx)/half)
}

// highestFruit returns the index of the fruit with the smallest y, first on ties.
func (g *Game) highestFruit() int {
	best := -1
	for i, f := range g.fruits {
		if best < 0 || f.Y < g.fruits[best].Y {
			best = i
		}
	}
	return best
}
