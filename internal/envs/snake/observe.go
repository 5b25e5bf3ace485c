package snake

import "github.com/vovakirdan/arcade-gym/internal/core"

// Observe writes, in order: head x,y; food x,y; food offset x,y shifted by
// 0.5; danger up/down/left/right; length ratio; one-hot heading.
func (g *Game) Observe(dst []float64) {
	w, h := float64(g.cfg.Grid.Width), float64(g.cfg.Grid.Height)
	head := g.snake[0]

	dst[0] = core.Ratio(float64(head.X), w)
	dst[1] = core.Ratio(float64(head.Y), h)
	dst[2] = core.Ratio(float64(g.food.X), w)
	dst[3] = core.Ratio(float64(g.food.Y), h)
	dst[4] = core.ClampF(float64(g.food.X-head.X)/w+0.5, 0, 1)
	dst[5] = core.ClampF(float64(g.food.Y-head.Y)/h+0.5, 0, 1)

	for i, dir := range []core.Direction{core.DirUp, core.DirDown, core.DirLeft, core.DirRight} {
		dst[6+i] = bool01(g.danger(dir))
		dst[11+i] = bool01(g.direction == dir)
	}
	dst[10] = core.Ratio(float64(len(g.snake)), w*h)
}

// Stats reports the counters surfaced in Info.
func (g *Game) Stats() core.Stats {
	return core.Stats{
		Score:            g.score,
		Hits:             g.score,
		Length:           len(g.snake),
		StepsSinceFood:   g.stepsSinceFood,
		DistanceToTarget: float64(g.distanceToFood()),
	}
}

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
