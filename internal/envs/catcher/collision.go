package catcher

import "math"

type fruitOutcome int

const (
	fruitFalling fruitOutcome = iota
	fruitCaught
	fruitMissed
)

// checkFruit classifies a fruit against the basket and the ground.
// A catch wins over a miss when both apply.
func (g *Game) checkFruit(f fruit) fruitOutcome {
	if g.basket.Intersects(f.Rect) {
		return fruitCaught
	}
	if f.Bottom() >= g.cfg.Field.Height-g.cfg.Field.Ground {
		return fruitMissed
	}
	return fruitFalling
}

// catchScope returns the half-open index range of fruits checked for
// catches and misses this tick. The legacy scope only sees the last fruit.
func (g *Game) catchScope() (int, int) {
	n := len(g.fruits)
	if g.cfg.LegacyCatchScope && n > 0 {
		return n - 1, n
	}
	return 0, n
}

// bombsNear counts bombs whose center lies within radius of the basket
// center, measured horizontally.
func (g *Game) bombsNear(radius float64) int {
	bx, _ := g.basket.Center()
	n := 0
	for _, b := range g.bombs {
		cx, _ := b.Center()
		if math.Abs(cx-bx) < radius {
			n++
		}
	}
	return n
}
