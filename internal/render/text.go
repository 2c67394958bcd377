package render

import (
	"math"

	"weft/internal/anchor"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
)

// Cell is the size of one terminal cell in screen units.
type Cell struct {
	W, H float64
}

// DefaultCell matches a typical 8×16 terminal font.
var DefaultCell = Cell{W: 8, H: 16}

func (c Cell) valid() Cell {
	if !geom.IsFinite(c.W) || c.W <= 0 || !geom.IsFinite(c.H) || c.H <= 0 {
		return DefaultCell
	}
	return c
}

const (
	wireRune    = '·'
	previewRune = '∙'
	inputRune   = '○'
	outputRune  = '●'
	rerouteRune = '◆'
)

// Text draws f into a cols×rows grid.
func Text(f Frame, cols, rows int, cell Cell) []string {
	return TextGrid(f, cols, rows, cell).Lines()
}

// TextGrid is Text returning the grid itself.
func TextGrid(f Frame, cols, rows int, cell Cell) *Grid {
	t := textRenderer{f: f, g: NewGrid(cols, rows), cell: cell.valid()}
	t.draw()
	return t.g
}

type textRenderer struct {
	f    Frame
	g    *Grid
	cell Cell
}

func (t *textRenderer) draw() {
	for _, gr := range t.f.Groups {
		t.drawGroup(gr)
	}
	for _, w := range t.f.Wires {
		t.drawWire(w.From, w.To, wireRune)
	}
	if p := t.f.Preview; p != nil {
		t.drawWire(p.From, p.To, previewRune)
	}
	for _, n := range t.f.Nodes {
		t.drawNode(n)
	}
	for _, p := range t.f.Panels {
		t.drawPanel(p)
	}
}

// screenCell converts a viewport-local screen point to a cell.
func (t *textRenderer) screenCell(p geom.Point) (int, int) {
	return int(math.Floor(p.X / t.cell.W)), int(math.Floor(p.Y / t.cell.H))
}

func (t *textRenderer) worldCell(p geom.Point) (int, int) {
	return t.screenCell(t.f.ToScreen(p))
}

// cellRect converts a viewport-local screen rectangle to cells, clamping to
// a range that keeps integer math safe.
func (t *textRenderer) cellRect(r geom.Rect) (x, y, w, h int) {
	const limit = 1 << 20
	x0 := clampCell(math.Floor(r.X/t.cell.W), limit)
	y0 := clampCell(math.Floor(r.Y/t.cell.H), limit)
	x1 := clampCell(math.Ceil(r.Right()/t.cell.W), limit)
	y1 := clampCell(math.Ceil(r.Bottom()/t.cell.H), limit)
	return x0, y0, max(x1-x0, 1), max(y1-y0, 1)
}

func (t *textRenderer) worldRect(r geom.Rect) (x, y, w, h int) {
	a := t.f.ToScreen(r.Min())
	b := t.f.ToScreen(geom.Point{X: r.Right(), Y: r.Bottom()})
	return t.cellRect(geom.RectFromPoints(a, b))
}

func clampCell(v float64, limit int) int {
	if !geom.IsFinite(v) {
		return 0
	}
	return int(geom.Clamp(v, -float64(limit), float64(limit)))
}

func (t *textRenderer) drawGroup(gr graph.Group) {
	x, y, w, h := t.worldRect(gr.Bounds())
	t.g.Box(x, y, w, h, dottedBox)
	t.g.Text(x+2, y, truncate(" "+gr.Title+" ", w-4))
}

func (t *textRenderer) drawWire(from, to geom.Point, r rune) {
	a, b := t.f.ToScreen(from), t.f.ToScreen(to)
	cells := a.Dist(b) / math.Min(t.cell.W, t.cell.H)
	n := int(geom.Clamp(cells/2, 8, 64))
	pts := geom.SampleWire(a, b, n)
	bounds := geom.Rect{
		X: -t.cell.W, Y: -t.cell.H,
		W: float64(t.g.w+2) * t.cell.W, H: float64(t.g.h+2) * t.cell.H,
	}
	for i := 1; i < len(pts); i++ {
		p, q, ok := clipSegment(pts[i-1], pts[i], bounds)
		if !ok {
			continue
		}
		x0, y0 := t.screenCell(p)
		x1, y1 := t.screenCell(q)
		t.g.Line(x0, y0, x1, y1, r)
	}
}

func (t *textRenderer) drawNode(n graph.Node) {
	if n.Type == graph.TypeRerouteDot {
		c := NodeBox(n).Center()
		x, y := t.worldCell(c)
		t.g.Set(x, y, rerouteRune)
		return
	}

	x, y, w, h := t.worldRect(NodeBox(n))
	box := lightBox
	if t.f.Selected[n.ID] {
		box = doubleBox
	}
	t.g.Fill(x, y, w, h)
	t.g.Box(x, y, w, h, box)
	t.g.Text(x+1, y, truncate(nodeLabel(n), w-2))

	if !n.Docked() && !n.IsCollapsed && h > 2 {
		t.g.Text(x+1, y+1, truncate(string(n.Type), w-2))
	}

	origin := n.Pos()
	for _, hd := range t.f.Handles[n.ID] {
		hx, hy := t.worldCell(origin.Add(hd.Local))
		if hd.Input {
			t.g.Set(hx, hy, inputRune)
		} else {
			t.g.Set(hx, hy, outputRune)
		}
	}
}

func nodeLabel(n graph.Node) string {
	label := n.Title()
	switch {
	case n.Docked():
		label = "⇱ " + label
	case n.IsCollapsed:
		label = "▸ " + label
	}
	if n.IsPinned {
		label += " ⌖"
	}
	return label
}

func (t *textRenderer) drawPanel(p dock.Panel) {
	r := p.Box.Rect
	if p.Box.Clip.W > 0 {
		r = geom.Rect{X: r.X, Y: r.Y, W: math.Min(r.W, p.Box.Clip.W), H: r.H}
	}
	x, y, w, h := t.cellRect(r)
	t.g.Fill(x, y, w, h)
	t.g.Box(x, y, w, h, heavyBox)

	t.g.Text(x+2, y, truncate(" "+panelTitle(p)+" ", w-4))

	// Handles stay on the canvas proxy; the panel lists them instead.
	row := y + 2
	for _, hd := range portLines(t.f.Handles[p.Node.ID]) {
		if row >= y+h-1 {
			break
		}
		t.g.Text(x+2, row, truncate(hd, w-4))
		row++
	}
}

func panelTitle(p dock.Panel) string {
	if p.Box.Focused {
		return p.Node.Title() + " [focus]"
	}
	return p.Node.Title() + " [" + string(p.Node.Mode()) + "]"
}

// clipSegment clips a→b to r (Liang-Barsky).
func clipSegment(a, b geom.Point, r geom.Rect) (geom.Point, geom.Point, bool) {
	if !a.Finite() || !b.Finite() {
		return a, b, false
	}
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X - r.X},
		{dx, r.Right() - a.X},
		{-dy, a.Y - r.Y},
		{dy, r.Bottom() - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		u := q / p
		if p < 0 {
			if u > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, u)
		} else {
			if u < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, u)
		}
	}
	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// portLines describes handles for display inside a panel.
func portLines(hs []anchor.Handle) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		if h.Input {
			out = append(out, string(inputRune)+" "+portName(h.ID))
		} else {
			out = append(out, string(outputRune)+" "+portName(h.ID))
		}
	}
	return out
}

func portName(id string) string {
	if id == "" {
		return "default"
	}
	return id
}
