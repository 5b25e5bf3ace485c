package catcher

import "github.com/vovakirdan/arcade-gym/internal/core"

// Observe writes fruit positions, basket position, cooldown progress and
// power-up state, each normalized by the playfield.
func (g *Game) Observe(dst []float64) {
	w, h := g.cfg.Field.Width, g.cfg.Field.Height
	i := 0
	for _, f := range g.fruits {
		dst[i] = core.Ratio(f.X, w)
		dst[i+1] = core.Ratio(f.Y, h)
		i += 2
	}
	dst[i] = core.Ratio(g.basket.X, w)
	dst[i+1] = core.Ratio(g.basket.Y, h)
	dst[i+2] = g.power.CooldownProgress(g.tick)
	dst[i+3] = 0
	if g.power.Active {
		dst[i+3] = 1
	}
}

// Stats reports the counters surfaced in Info.
func (g *Game) Stats() core.Stats {
	return core.Stats{
		Score:         g.score,
		Hits:          g.caught,
		Misses:        g.missed,
		Fruits:        len(g.fruits),
		Bombs:         len(g.bombs),
		PowerUpActive: g.power.Active,
		Ramped:        g.difficulty.Ramped(),
	}
}
