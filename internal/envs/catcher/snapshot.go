package catcher

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick          int
	Score         int
	Caught        int
	Missed        int
	BasketX       float64
	BasketY       float64
	FruitX        []float64
	FruitY        []float64
	FruitSpeed    []float64
	BombY         []float64
	BombVY        []float64
	Gravity       float64
	Multiplier    float64
	PowerUpActive bool
	Terminal      bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:          g.tick,
		Score:         g.score,
		Caught:        g.caught,
		Missed:        g.missed,
		BasketX:       g.basket.X,
		BasketY:       g.basket.Y,
		Gravity:       g.gravity,
		Multiplier:    g.difficulty.Speed(1),
		PowerUpActive: g.power.Active,
		Terminal:      g.terminal,
	}
	for _, f := range g.fruits {
		s.FruitX = append(s.FruitX, f.X)
		s.FruitY = append(s.FruitY, f.Y)
		s.FruitSpeed = append(s.FruitSpeed, f.Speed)
	}
	for _, b := range g.bombs {
		s.BombY = append(s.BombY, b.Y)
		s.BombVY = append(s.BombVY, b.VY)
	}
	return s
}
