package render

import "strings"

// Grid is a fixed-size rune canvas. Writes outside it are dropped.
type Grid struct {
	cells [][]rune
	w, h  int
}

// NewGrid returns a blank w×h grid. Sizes below 1 are raised to 1.
func NewGrid(w, h int) *Grid {
	w, h = max(w, 1), max(h, 1)
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Grid{cells: cells, w: w, h: h}
}

// Size returns the grid width and height in cells.
func (g *Grid) Size() (int, int) { return g.w, g.h }

func (g *Grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// At returns the rune at x, y, or 0 outside the grid.
func (g *Grid) At(x, y int) rune {
	if !g.in(x, y) {
		return 0
	}
	return g.cells[y][x]
}

// Set writes r at x, y.
func (g *Grid) Set(x, y int, r rune) {
	if g.in(x, y) {
		g.cells[y][x] = r
	}
}

// SetIfEmpty writes r at x, y unless something is already drawn there.
func (g *Grid) SetIfEmpty(x, y int, r rune) {
	if g.in(x, y) && g.cells[y][x] == ' ' {
		g.cells[y][x] = r
	}
}

// Text writes s starting at x, y without wrapping.
func (g *Grid) Text(x, y int, s string) {
	if y < 0 || y >= g.h {
		return
	}
	col := x
	for _, r := range s {
		if col >= g.w {
			break
		}
		g.Set(col, y, r)
		col++
	}
}

// Fill blanks the rectangle.
func (g *Grid) Fill(x, y, w, h int) {
	for row := max(y, 0); row < min(y+h, g.h); row++ {
		for col := max(x, 0); col < min(x+w, g.w); col++ {
			g.cells[row][col] = ' '
		}
	}
}

// BoxRunes are the border characters of a box.
type BoxRunes struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	lightBox  = BoxRunes{'┌', '┐', '└', '┘', '─', '│'}
	doubleBox = BoxRunes{'╔', '╗', '╚', '╝', '═', '║'}
	heavyBox  = BoxRunes{'┏', '┓', '┗', '┛', '━', '┃'}
	dottedBox = BoxRunes{'╭', '╮', '╰', '╯', '┄', '┆'}
)

// Box draws a border around the rectangle. Boxes narrower or shorter than
// two cells collapse to a single rune.
func (g *Grid) Box(x, y, w, h int, b BoxRunes) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == 1 || h == 1 {
		for row := max(y, 0); row < min(y+h, g.h); row++ {
			for col := max(x, 0); col < min(x+w, g.w); col++ {
				g.Set(col, row, b.Horizontal)
			}
		}
		return
	}
	right, bottom := x+w-1, y+h-1
	for col := max(x+1, 0); col < min(right, g.w); col++ {
		g.Set(col, y, b.Horizontal)
		g.Set(col, bottom, b.Horizontal)
	}
	for row := max(y+1, 0); row < min(bottom, g.h); row++ {
		g.Set(x, row, b.Vertical)
		g.Set(right, row, b.Vertical)
	}
	g.Set(x, y, b.TopLeft)
	g.Set(right, y, b.TopRight)
	g.Set(x, bottom, b.BottomLeft)
	g.Set(right, bottom, b.BottomRight)
}

// Line draws r along the cells between two points, leaving drawn cells
// alone.
func (g *Grid) Line(x0, y0, x1, y1 int, r rune) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	// Lines far outside the grid are clipped by step count.
	for steps := 0; steps <= dx-dy; steps++ {
		g.SetIfEmpty(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Lines returns the grid rows as strings.
func (g *Grid) Lines() []string {
	out := make([]string, 0, g.h)
	for _, row := range g.cells {
		out = append(out, string(row))
	}
	return out
}

// String joins the rows with newlines.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
