package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"weft/internal/anchor"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
)

// ErrNothingToExport is returned when the frame has nothing to draw.
var ErrNothingToExport = errors.New("nothing to export")

const (
	maxImageSide   = 8192
	defaultPadding = 40.0
	fontSize       = 12.0
	handleRadius   = 4.0
	arrowSize      = 8.0
)

var (
	colBackground = color.White
	colInk        = color.Black
	colHeader     = color.RGBA{R: 0xe8, G: 0xe8, B: 0xee, A: 0xff}
	colGroup      = color.RGBA{R: 0xf2, G: 0xf5, B: 0xfa, A: 0xff}
	colGroupLine  = color.RGBA{R: 0x88, G: 0x99, B: 0xbb, A: 0xff}
	colWire       = color.RGBA{R: 0x44, G: 0x55, B: 0x77, A: 0xff}
	colSelected   = color.RGBA{R: 0x22, G: 0x66, B: 0xdd, A: 0xff}
	colPanel      = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
)

// PNGOptions controls PNG export.
type PNGOptions struct {
	// Viewport draws the frame as it appears on screen. Otherwise the whole
	// frame is fitted into the image.
	Viewport bool
	// Scale is pixels per world unit for whole-canvas export. Zero means 1.
	Scale float64
	// Padding is the world-space margin around the canvas bounds.
	Padding float64
}

// ExportPNG draws f to a PNG file at path.
func ExportPNG(path string, f Frame, opts PNGOptions) error {
	dc, err := drawPNG(f, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// WritePNG encodes the drawing of f as PNG to w.
func WritePNG(w io.Writer, f Frame, opts PNGOptions) error {
	dc, err := drawPNG(f, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Image returns the drawing of f.
func Image(f Frame, opts PNGOptions) (image.Image, error) {
	dc, err := drawPNG(f, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

type pngRenderer struct {
	dc    *gg.Context
	f     Frame
	scale float64
	toPx  func(geom.Point) geom.Point
}

func drawPNG(f Frame, opts PNGOptions) (*gg.Context, error) {
	if len(f.Nodes) == 0 && len(f.Groups) == 0 && len(f.Panels) == 0 {
		return nil, ErrNothingToExport
	}

	r := pngRenderer{f: f}
	var width, height int
	if opts.Viewport {
		view := f.View.Sanitize()
		r.scale = view.Scale
		r.toPx = f.ToScreen
		width, height = int(math.Ceil(f.Screen.W)), int(math.Ceil(f.Screen.H))
	} else {
		bounds, ok := canvasBounds(f)
		if !ok {
			return nil, ErrNothingToExport
		}
		pad := opts.Padding
		if !geom.IsFinite(pad) || pad <= 0 {
			pad = defaultPadding
		}
		bounds = bounds.Inset(-pad, -pad, -pad, -pad)
		scale := opts.Scale
		if !geom.IsFinite(scale) || scale <= 0 {
			scale = 1
		}
		if side := math.Max(bounds.W, bounds.H) * scale; side > maxImageSide {
			scale *= maxImageSide / side
		}
		r.scale = scale
		origin := bounds.Min()
		r.toPx = func(p geom.Point) geom.Point { return p.Sub(origin).Scale(scale) }
		width, height = int(math.Ceil(bounds.W*scale)), int(math.Ceil(bounds.H*scale))
	}
	if width <= 0 || height <= 0 {
		return nil, ErrNothingToExport
	}

	r.dc = gg.NewContext(min(width, maxImageSide), min(height, maxImageSide))
	r.dc.SetColor(colBackground)
	r.dc.Clear()

	face, err := monoFace(fontSize)
	if err != nil {
		return nil, err
	}
	r.dc.SetFontFace(face)

	for _, g := range f.Groups {
		r.drawGroup(g)
	}
	for _, w := range f.Wires {
		r.drawWire(w.From, w.To, colWire)
	}
	if f.Preview != nil {
		r.drawWire(f.Preview.From, f.Preview.To, colSelected)
	}
	for _, n := range f.Nodes {
		r.drawNode(n)
	}
	if opts.Viewport {
		for _, p := range f.Panels {
			r.drawPanel(p)
		}
	}
	return r.dc, nil
}

func monoFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// canvasBounds is the union of every node, group and wire endpoint.
func canvasBounds(f Frame) (geom.Rect, bool) {
	var (
		b  geom.Rect
		ok bool
	)
	add := func(r geom.Rect) {
		if !ok {
			b, ok = r, true
			return
		}
		b = b.Union(r)
	}
	for _, n := range f.Nodes {
		add(NodeBox(n))
	}
	for _, g := range f.Groups {
		add(g.Bounds())
	}
	for _, w := range f.Wires {
		add(geom.RectFromPoints(w.From, w.To))
	}
	return b, ok
}

func (r *pngRenderer) rect(w geom.Rect) geom.Rect {
	a := r.toPx(w.Min())
	b := r.toPx(geom.Point{X: w.Right(), Y: w.Bottom()})
	return geom.RectFromPoints(a, b)
}

func (r *pngRenderer) drawGroup(g graph.Group) {
	px := r.rect(g.Bounds())
	r.dc.SetColor(colGroup)
	r.dc.DrawRoundedRectangle(px.X, px.Y, px.W, px.H, 8)
	r.dc.Fill()
	r.dc.SetColor(colGroupLine)
	r.dc.SetLineWidth(1.5)
	r.dc.SetDash(6, 4)
	r.dc.DrawRoundedRectangle(px.X, px.Y, px.W, px.H, 8)
	r.dc.Stroke()
	r.dc.SetDash()
	r.dc.DrawString(g.Title, px.X+10, px.Y+fontSize+6)
}

func (r *pngRenderer) drawWire(from, to geom.Point, c color.Color) {
	c1, c2 := geom.WireControls(from, to)
	a, p1, p2, b := r.toPx(from), r.toPx(c1), r.toPx(c2), r.toPx(to)

	r.dc.SetColor(c)
	r.dc.SetLineWidth(1.5)
	r.dc.MoveTo(a.X, a.Y)
	r.dc.CubicTo(p1.X, p1.Y, p2.X, p2.Y, b.X, b.Y)
	r.dc.Stroke()

	tail := p2
	if tail.Dist(b) < 0.1 {
		tail = a
	}
	r.drawArrow(tail, b)
}

func (r *pngRenderer) drawArrow(from, to geom.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const spread = 0.5
	r.dc.MoveTo(to.X, to.Y)
	r.dc.LineTo(to.X-arrowSize*dx+arrowSize*dy*spread, to.Y-arrowSize*dy-arrowSize*dx*spread)
	r.dc.LineTo(to.X-arrowSize*dx-arrowSize*dy*spread, to.Y-arrowSize*dy+arrowSize*dx*spread)
	r.dc.ClosePath()
	r.dc.Fill()
}

func (r *pngRenderer) drawNode(n graph.Node) {
	px := r.rect(NodeBox(n))
	if n.Type == graph.TypeRerouteDot {
		c := px.Center()
		r.dc.SetColor(colWire)
		r.dc.DrawCircle(c.X, c.Y, math.Max(math.Min(px.W, px.H)/4, 3))
		r.dc.Fill()
		return
	}

	r.dc.SetColor(colBackground)
	r.dc.DrawRectangle(px.X, px.Y, px.W, px.H)
	r.dc.Fill()

	header := math.Min(anchor.HeaderHeight*r.scale, px.H)
	r.dc.SetColor(colHeader)
	r.dc.DrawRectangle(px.X, px.Y, px.W, header)
	r.dc.Fill()

	var border color.Color = colInk
	width := 1.0
	if r.f.Selected[n.ID] {
		border, width = colSelected, 2.5
	}
	r.dc.SetColor(border)
	r.dc.SetLineWidth(width)
	r.dc.DrawRectangle(px.X, px.Y, px.W, px.H)
	r.dc.Stroke()

	r.dc.SetColor(colInk)
	r.dc.DrawStringAnchored(nodeLabel(n), px.X+8, px.Y+header/2, 0, 0.35)

	origin := n.Pos()
	for _, h := range r.f.Handles[n.ID] {
		p := r.toPx(origin.Add(h.Local))
		r.dc.DrawCircle(p.X, p.Y, handleRadius)
		if h.Input {
			r.dc.SetColor(colBackground)
			r.dc.FillPreserve()
			r.dc.SetColor(colInk)
			r.dc.SetLineWidth(1)
			r.dc.Stroke()
		} else {
			r.dc.SetColor(colInk)
			r.dc.Fill()
		}
	}
}

func (r *pngRenderer) drawPanel(p dock.Panel) {
	box, clip := p.Box.Rect, p.Box.Clip
	r.dc.Push()
	defer r.dc.Pop()
	if clip.W > 0 {
		r.dc.DrawRectangle(clip.X, clip.Y, clip.W, clip.H)
		r.dc.Clip()
	}
	r.dc.SetColor(colPanel)
	r.dc.DrawRectangle(box.X, box.Y, box.W, box.H)
	r.dc.Fill()
	r.dc.SetColor(colInk)
	r.dc.SetLineWidth(2)
	r.dc.DrawRectangle(box.X, box.Y, box.W, box.H)
	r.dc.Stroke()
	r.dc.DrawString(panelTitle(p), box.X+10, box.Y+fontSize+8)
}
