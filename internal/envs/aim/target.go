package aim

import (
	"math"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// maxSpawnAttempts bounds the re-draws spent looking for a target that does
// not already contain the cursor.
const maxSpawnAttempts = 64

// spawnTarget draws a new target with an integer center and radius. When
// every attempt lands on the cursor, the candidate whose edge is farthest
// from it is kept.
func (g *Game) spawnTarget() {
	var best core.Circle
	bestGap := math.Inf(-1)

	for range maxSpawnAttempts {
		c := g.drawTarget()
		if !c.ContainsPoint(g.cursorX, g.cursorY) {
			g.target = c
			g.spawned++
			return
		}
		gap := core.Distance(c.X, c.Y, g.cursorX, g.cursorY) - c.R
		if gap > bestGap {
			best, bestGap = c, gap
		}
	}

	g.target = best
	g.spawned++
}

func (g *Game) drawTarget() core.Circle {
	f, t := g.cfg.Field, g.cfg.Target
	margin := int(f.Margin)
	maxX := int(f.Width) - margin
	maxY := int(f.Height) - margin

	return core.Circle{
		X: float64(margin + g.rng.Intn(maxX-margin+1)),
		Y: float64(margin + g.rng.Intn(maxY-margin+1)),
		R: float64(t.MinRadius + g.rng.Intn(t.MaxInitialRadius-t.MinRadius+1)),
	}
}
