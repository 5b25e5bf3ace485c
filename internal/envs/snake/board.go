package snake

import "github.com/vovakirdan/arcade-gym/internal/core"

// spawnFood places food on a random free cell away from the border
// column and row at zero. If the board is full the food is parked off-grid.
func (g *Game) spawnFood() {
	var free []Point
	for y := 1; y < g.cfg.Grid.Height; y++ {
		for x := 1; x < g.cfg.Grid.Width; x++ {
			p := Point{X: x, Y: y}
			if !g.occupied(p) {
				free = append(free, p)
			}
		}
	}

	if len(free) == 0 {
		g.food = Point{X: -1, Y: -1}
		return
	}
	g.food = free[g.rng.Intn(len(free))]
}

// occupied checks if any body segment covers p.
func (g *Game) occupied(p Point) bool {
	for _, seg := range g.snake {
		if seg == p {
			return true
		}
	}
	return false
}

func (g *Game) inBounds(p Point) bool {
	return p.X >= 0 && p.X < g.cfg.Grid.Width && p.Y >= 0 && p.Y < g.cfg.Grid.Height
}

// collides reports a wall hit or the head landing on another segment.
func (g *Game) collides() bool {
	head := g.snake[0]
	if !g.inBounds(head) {
		return true
	}
	for _, seg := range g.snake[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// danger reports whether the cell next to the head in dir is a wall or body.
func (g *Game) danger(dir core.Direction) bool {
	dx, dy := dir.Delta()
	p := Point{X: g.snake[0].X + dx, Y: g.snake[0].Y + dy}
	return !g.inBounds(p) || g.occupied(p)
}

func (g *Game) distanceToFood() int {
	head := g.snake[0]
	return core.Abs(head.X-g.food.X) + core.Abs(head.Y-g.food.Y)
}
