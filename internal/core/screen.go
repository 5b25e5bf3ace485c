package core

import (
	"math"
	"strings"
)

// Color is a foreground color for a screen cell.
// The platform maps it to ANSI 256-color codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorWhite
	ColorOrange
	ColorGray
)

// Cell is a single character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D character buffer that environments render into.
// It decouples environment rendering from the terminal: environments only
// ever write runes, the platform decides how to display them.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	for y := 0; y < min(oldH, height); y++ {
		copy(s.cells[y][:min(oldW, width)], oldCells[y])
	}
}

// Clear fills the entire screen with uncolored spaces.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a rune at the given position with the default color.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColored(x, y, r, ColorDefault)
}

// SetColored places a colored rune at the given position.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// Get returns the rune at the given position, or space when out of bounds.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (s *Screen) DrawTextCentered(y int, text string) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawText(x, y, text)
}

// FillRect fills a rectangular cell area with a colored rune.
func (s *Screen) FillRect(x, y, w, h int, r rune, c Color) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetColored(col, row, r, c)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (s *Screen) DrawBox(x, y, w, h int) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	s.Set(x, y, '┌')
	s.Set(right, y, '┐')
	s.Set(x, bottom, '└')
	s.Set(right, bottom, '┘')
	for col := x + 1; col < right; col++ {
		s.Set(col, y, '─')
		s.Set(col, bottom, '─')
	}
	for row := y + 1; row < bottom; row++ {
		s.Set(x, row, '│')
		s.Set(right, row, '│')
	}
}

// String converts the screen buffer to plain text, rows joined by newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Viewport maps playfield coordinates onto a rectangular region of a Screen.
type Viewport struct {
	OffsetX, OffsetY int     // Top-left cell of the region
	Cols, Rows       int     // Region size in cells
	WorldW, WorldH   float64 // Playfield extents
}

// NewViewport fits a worldW×worldH playfield into the screen below hudRows.
func NewViewport(dst *Screen, worldW, worldH float64, hudRows int) Viewport {
	return Viewport{
		OffsetX: 0,
		OffsetY: hudRows,
		Cols:    dst.Width(),
		Rows:    max(dst.Height()-hudRows, 0),
		WorldW:  worldW,
		WorldH:  worldH,
	}
}

// Cell converts a playfield point to screen cell coordinates.
func (v Viewport) Cell(x, y float64) (int, int) {
	if v.WorldW <= 0 || v.WorldH <= 0 {
		return v.OffsetX, v.OffsetY
	}
	cx := int(math.Floor(x / v.WorldW * float64(v.Cols)))
	cy := int(math.Floor(y / v.WorldH * float64(v.Rows)))
	return v.OffsetX + cx, v.OffsetY + cy
}

// Point converts a screen cell back to the playfield point at its center.
func (v Viewport) Point(col, row int) (float64, float64) {
	if v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0
	}
	x := (float64(col-v.OffsetX) + 0.5) / float64(v.Cols) * v.WorldW
	y := (float64(row-v.OffsetY) + 0.5) / float64(v.Rows) * v.WorldH
	return x, y
}

// FillWorldRect fills the cells covered by a playfield rectangle, at least one cell.
func (v Viewport) FillWorldRect(dst *Screen, r Rect, ch rune, c Color) {
	x0, y0 := v.Cell(r.X, r.Y)
	x1, y1 := v.Cell(r.Right(), r.Bottom())
	w, h := max(x1-x0, 1), max(y1-y0, 1)
	for row := y0; row < y0+h; row++ {
		if row < v.OffsetY || row >= v.OffsetY+v.Rows {
			continue
		}
		for col := x0; col < x0+w; col++ {
			dst.SetColored(col, row, ch, c)
		}
	}
}
