package aim

import "github.com/vovakirdan/arcade-gym/internal/core"

// Observe writes cursor and target positions, the radius relative to the
// terminal radius, and the growth rate.
func (g *Game) Observe(dst []float64) {
	w, h := g.cfg.Field.Width, g.cfg.Field.Height
	dst[0] = core.Ratio(g.cursorX, w)
	dst[1] = core.Ratio(g.cursorY, h)
	dst[2] = core.Ratio(g.target.X, w)
	dst[3] = core.Ratio(g.target.Y, h)
	dst[4] = core.Ratio(g.target.R, g.cfg.Target.MaxRadius)
	dst[5] = core.Ratio(g.cfg.Target.Growth, 1)
}

// Stats reports the counters surfaced in Info.
func (g *Game) Stats() core.Stats {
	return core.Stats{
		Score:            g.score,
		Hits:             g.hits,
		Misses:           g.misses,
		DistanceToTarget: g.distance,
	}
}
