package aim

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick     int
	Score    int
	Hits     int
	Misses   int
	Spawned  int
	CursorX  float64
	CursorY  float64
	TargetX  float64
	TargetY  float64
	Radius   float64
	Terminal bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:     g.tick,
		Score:    g.score,
		Hits:     g.hits,
		Misses:   g.misses,
		Spawned:  g.spawned,
		CursorX:  g.cursorX,
		CursorY:  g.cursorY,
		TargetX:  g.target.X,
		TargetY:  g.target.Y,
		Radius:   g.target.R,
		Terminal: g.terminal,
	}
}
