package aim

import (
	"fmt"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// HUDRows is the number of screen rows above the playfield.
const HUDRows = 2

// Render draws the target and cursor. Terminal cells are roughly twice as
// tall as wide, which the viewport scaling absorbs.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	acc := core.Stats{Hits: g.hits, Misses: g.misses}.Accuracy()
	hud := fmt.Sprintf(" Aim  Score: %d  Accuracy: %.0f%%  Size: %d/%d",
		g.score, acc*100, int(g.target.R), int(g.cfg.Target.MaxRadius))
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}

	vp := core.NewViewport(dst, g.cfg.Field.Width, g.cfg.Field.Height, HUDRows)
	for row := vp.OffsetY; row < vp.OffsetY+vp.Rows; row++ {
		for col := vp.OffsetX; col < vp.OffsetX+vp.Cols; col++ {
			x, y := vp.Point(col, row)
			if g.target.ContainsPoint(x, y) {
				dst.SetColored(col, row, '█', core.ColorRed)
			}
		}
	}

	// Always show at least the target center
	cx, cy := vp.Cell(g.target.X, g.target.Y)
	dst.SetColored(cx, cy, '●', core.ColorRed)

	mx, my := vp.Cell(g.cursorX, g.cursorY)
	dst.SetColored(mx, my, '+', core.ColorGreen)

	if g.terminal {
		line := "Target overgrown"
		boxW := len(line) + 4
		boxX, boxY := (dst.Width()-boxW)/2, dst.Height()/2-1
		dst.FillRect(boxX, boxY, boxW, 3, ' ', core.ColorDefault)
		dst.DrawBox(boxX, boxY, boxW, 3)
		dst.DrawTextCentered(boxY+1, line)
	}
}
