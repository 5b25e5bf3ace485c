package catcher

import (
	"fmt"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

const hudRows = 2

// Render draws the playfield below a two-line HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	f := g.cfg.Field
	vp := core.NewViewport(dst, f.Width, f.Height, hudRows)

	vp.FillWorldRect(dst, core.NewRect(0, f.Height-f.Ground, f.Width, f.Ground), '░', core.ColorGreen)
	for _, fr := range g.fruits {
		if fr.Bottom() > 0 {
			vp.FillWorldRect(dst, fr.Rect, '●', fr.Color)
		}
	}
	for _, b := range g.bombs {
		if b.Bottom() > 0 {
			vp.FillWorldRect(dst, b.Rect, '◆', core.ColorGray)
		}
	}

	basketColor := core.ColorBlue
	if g.power.Active {
		basketColor = core.ColorWhite
	}
	vp.FillWorldRect(dst, g.basket, '▄', basketColor)

	if g.terminal {
		renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d", g.score))
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	power := "READY"
	switch {
	case g.power.Active:
		power = "ACTIVE"
	case !g.power.Ready(g.tick):
		secs := float64(g.power.Remaining(g.tick)) / float64(g.cfg.Episode.TickRate)
		power = fmt.Sprintf("%.1fs", secs)
	}

	hud := fmt.Sprintf(" Catcher  Score: %d  Caught: %d  Missed: %d  Power: %s", g.score, g.caught, g.missed, power)
	if g.difficulty.Ramped() {
		hud += "  FAST"
	}
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderOverlay draws a centered two-line message box.
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
