package snake

import (
	"fmt"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

const hudRows = 2

// Render draws the board scaled into the screen below the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	w, h := float64(g.cfg.Grid.Width), float64(g.cfg.Grid.Height)
	vp := core.NewViewport(dst, w, h, hudRows)

	if g.food.X >= 0 {
		vp.FillWorldRect(dst, cell(g.food), '*', core.ColorRed)
	}
	// Tail first so the head is never painted over
	for i := len(g.snake) - 1; i >= 0; i-- {
		seg := g.snake[i]
		if !g.inBounds(seg) {
			continue
		}
		if i == 0 {
			vp.FillWorldRect(dst, cell(seg), 'O', core.ColorYellow)
		} else {
			vp.FillWorldRect(dst, cell(seg), 'o', core.ColorGreen)
		}
	}

	if g.terminal {
		renderOverlay(dst, "Game Over", fmt.Sprintf("Length: %d", len(g.snake)))
	}
}

func cell(p Point) core.Rect {
	return core.NewRect(float64(p.X), float64(p.Y), 1, 1)
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Snake  Score: %d  Length: %d  Hunger: %d/%d",
		g.score, len(g.snake), g.stepsSinceFood, g.cfg.StarvationFactor*len(g.snake))
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

func renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)
	dst.DrawTextCentered(boxY+1, line1)
	dst.DrawTextCentered(boxY+3, line2)
}
