package catcher

import "github.com/vovakirdan/arcade-gym/internal/core"

var fruitColors = []core.Color{core.ColorRed, core.ColorOrange, core.ColorYellow}

type fruit struct {
	core.Rect
	Speed float64
	Color core.Color
}

type bomb struct {
	core.Rect
	VY float64
}

// events collects what happened during one tick for the reward shaper.
type events struct {
	moved   bool
	caught  int
	missed  int
	bombHit bool
}

// spawnFruit places a fruit above the playfield. Speed is scaled to the
// current world speed so a later power-up expiry restores it exactly.
func (g *Game) spawnFruit(minY, maxY, minSpeed, maxSpeed float64) fruit {
	size := g.cfg.Fruit.Size
	x := g.randInt(0, g.cfg.Field.Width-size)
	y := g.randInt(minY, maxY)
	speed := g.difficulty.Speed(g.uniform(minSpeed, maxSpeed))
	if g.power.Active {
		speed /= g.cfg.PowerUp.Slowdown
	}
	return fruit{
		Rect:  core.NewRect(x, y, size, size),
		Speed: speed,
		Color: fruitColors[g.rng.Intn(len(fruitColors))],
	}
}

func (g *Game) respawnFruit() fruit {
	fc := g.cfg.Fruit
	return g.spawnFruit(fc.SpawnMinY, fc.SpawnMaxY, fc.MinSpeed, fc.MaxSpeed)
}

func (g *Game) spawnBomb() bomb {
	size := g.cfg.Bomb.Size
	vy := g.difficulty.Speed(g.uniform(g.cfg.Bomb.MinSpeed, g.cfg.Bomb.MaxSpeed))
	if g.power.Active {
		vy /= g.cfg.PowerUp.Slowdown
	}
	return bomb{
		Rect: core.NewRect(g.randInt(0, g.cfg.Field.Width-size), -size, size, size),
		VY:   vy,
	}
}

// updateBombs spawns, accelerates and moves bombs. The first bomb in list
// order that overlaps the basket ends the episode; later ones are ignored.
func (g *Game) updateBombs(ev *events) {
	if g.rng.Float64() < g.cfg.Bomb.SpawnChance && len(g.bombs) < g.cfg.Bomb.MaxActive {
		g.bombs = append(g.bombs, g.spawnBomb())
	}

	kept := g.bombs[:0]
	for _, b := range g.bombs {
		b.VY += g.gravity / 3
		b.Y += b.VY

		if !g.terminal && g.basket.Intersects(b.Rect) {
			g.terminal = true
			ev.bombHit = true
		} else if b.Y > g.cfg.Field.Height {
			continue
		}
		kept = append(kept, b)
	}
	g.bombs = kept
}

func (g *Game) updateFruits(ev *events) {
	for i := range g.fruits {
		g.fruits[i].Y += g.fruits[i].Speed
	}

	lo, hi := g.catchScope()
	for i := lo; i < hi; i++ {
		switch g.checkFruit(g.fruits[i]) {
		case fruitCaught:
			g.score++
			g.caught++
			ev.caught++
			g.fruits[i] = g.respawnFruit()
		case fruitMissed:
			g.score = max(0, g.score-1)
			g.missed++
			ev.missed++
			g.fruits[i] = g.respawnFruit()
		}
	}
}

// randInt draws an integer uniformly from [lo, hi], inclusive.
func (g *Game) randInt(lo, hi float64) float64 {
	a, b := int(lo), int(hi)
	if b <= a {
		return float64(a)
	}
	return float64(a + g.rng.Intn(b-a+1))
}

func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
