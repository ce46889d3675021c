package canvastui

import (
	"math"
	"strings"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/models"
)

// Canvas units per terminal cell. A cell is roughly 8 units wide and one
// text line (18 units) tall, so a wrapped line of node text maps to one
// grid row.
const (
	unitsPerCol = 8.0
	unitsPerRow = canvas.LineHeight
)

// gridSurface backs the canvas Surface with a rune grid sized in
// terminal cells.
type gridSurface struct {
	w, h int
	grid [][]rune
}

var _ canvas.Surface = (*gridSurface)(nil)

func newGridSurface(w, h int) *gridSurface {
	s := &gridSurface{w: w, h: h}
	s.Clear()
	return s
}

func (s *gridSurface) Clear() {
	grid := make([][]rune, s.h)
	for y := range grid {
		row := make([]rune, s.w)
		for x := range row {
			row[x] = ' '
		}
		grid[y] = row
	}
	s.grid = grid
}

func (s *gridSurface) cell(x, y float64) (int, int) {
	return int(math.Round(x / unitsPerCol)), int(math.Round(y / unitsPerRow))
}

// Line draws an elbow-shaped edge between two canvas points. Occupied
// cells are left alone, so boxes drawn afterwards stay crisp.
func (s *gridSurface) Line(x1, y1, x2, y2 float64) {
	c1, r1 := s.cell(x1, y1)
	c2, r2 := s.cell(x2, y2)

	mid := (c1 + c2) / 2
	s.drawH(r1, c1, mid, '─')
	s.drawV(mid, r1, r2, '│')
	s.drawH(r2, mid, c2, '─')

	arrow := '→'
	if c2 < c1 {
		arrow = '←'
	}
	s.setIfEmpty(c2, r2, arrow)
}

// Box draws a node rectangle. Note nodes get a single border, llm nodes
// a double one.
func (s *gridSurface) Box(x, y, w, h float64, typ models.NodeType) {
	col, row := s.cell(x, y)
	cols := maxInt(4, int(math.Round(w/unitsPerCol)))
	rows := maxInt(3, int(math.Round(h/unitsPerRow))+1)

	tl, tr, bl, br := '┌', '┐', '└', '┘'
	hr, vr := '─', '│'
	if typ == models.NodeTypeLLM {
		tl, tr, bl, br = '╔', '╗', '╚', '╝'
		hr, vr = '═', '║'
	}

	x1 := col + cols - 1
	y1 := row + rows - 1

	// Clear the interior so edges never show through a box.
	for ry := row; ry <= y1; ry++ {
		for cx := col; cx <= x1; cx++ {
			s.set(cx, ry, ' ')
		}
	}

	s.set(col, row, tl)
	s.set(x1, row, tr)
	s.set(col, y1, bl)
	s.set(x1, y1, br)
	for cx := col + 1; cx < x1; cx++ {
		s.set(cx, row, hr)
		s.set(cx, y1, hr)
	}
	for ry := row + 1; ry < y1; ry++ {
		s.set(col, ry, vr)
		s.set(x1, ry, vr)
	}
}

// Text draws one wrapped line of node text.
func (s *gridSurface) Text(x, y float64, line string) {
	col, row := s.cell(x, y)
	s.drawString(col, row, line)
}

func (s *gridSurface) String() string {
	lines := make([]string, 0, s.h)
	for y := range s.grid {
		lines = append(lines, string(s.grid[y]))
	}
	return strings.Join(lines, "\n")
}

func (s *gridSurface) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.grid[y][x] = r
}

func (s *gridSurface) setIfEmpty(x, y int, r rune) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	if s.grid[y][x] != ' ' {
		return
	}
	s.grid[y][x] = r
}

func (s *gridSurface) drawH(y, x1, x2 int, r rune) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		s.setIfEmpty(x, y, r)
	}
}

func (s *gridSurface) drawV(x, y1, y2 int, r rune) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		s.setIfEmpty(x, y, r)
	}
}

func (s *gridSurface) drawString(x, y int, str string) {
	if y < 0 || y >= s.h {
		return
	}
	col := x
	for _, r := range str {
		if col < 0 {
			col++
			continue
		}
		if col >= s.w {
			break
		}
		s.grid[y][col] = r
		col++
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

