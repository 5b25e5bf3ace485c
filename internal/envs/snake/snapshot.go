package snake

import "github.com/vovakirdan/arcade-gym/internal/core"

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick           int
	Score          int
	SnakeLen       int
	HeadX          int
	HeadY          int
	Dir            core.Direction
	FoodX          int
	FoodY          int
	StepsSinceFood int
	Terminal       bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	headX, headY := 0, 0
	if len(g.snake) > 0 {
		headX = g.snake[0].X
		headY = g.snake[0].Y
	}

	return Snapshot{
		Tick:           g.tick,
		Score:          g.score,
		SnakeLen:       len(g.snake),
		HeadX:          headX,
		HeadY:          headY,
		Dir:            g.direction,
		FoodX:          g.food.X,
		FoodY:          g.food.Y,
		StepsSinceFood: g.stepsSinceFood,
		Terminal:       g.terminal,
	}
}
