package dock

import (
	"weft/internal/geom"
	"weft/internal/graph"
)

// DefaultMargin is the gap kept between docked panels and the screen edge.
const DefaultMargin = 56.0

// Box is the screen placement of a docked or focused node.
type Box struct {
	geom.Rect
	// AutoWidth and AutoHeight mark dimensions that follow the screen rather
	// than the node's stored size.
	AutoWidth  bool
	AutoHeight bool
	// Clip, when non-empty, is the region the panel is cut to.
	Clip geom.Rect
	// Focused boxes cover the whole screen above everything else.
	Focused bool
}

// Place computes the box for mode on screen for a node whose stored size is
// w×h. It returns false for Free. A non-finite or negative margin means
// DefaultMargin.
func Place(mode graph.DockMode, w, h float64, screen geom.Rect, margin float64) (Box, bool) {
	if !geom.IsFinite(margin) || margin < 0 {
		margin = DefaultMargin
	}
	w = max(geom.OrDefault(w, 0), 0)
	h = max(geom.OrDefault(h, 0), 0)
	sx, sy := geom.OrDefault(screen.X, 0), geom.OrDefault(screen.Y, 0)
	sw, sh := geom.OrDefault(screen.W, 0), geom.OrDefault(screen.H, 0)

	innerW := max(sw-2*margin, 0)
	innerH := max(sh-2*margin, 0)
	left, top := sx+margin, sy+margin
	right, bottom := sx+sw-margin, sy+sh-margin

	switch mode {
	case graph.DockFull:
		return Box{Rect: geom.Rect{X: left, Y: top, W: innerW, H: innerH}, AutoWidth: true, AutoHeight: true}, true
	case graph.DockLeft:
		return Box{Rect: geom.Rect{X: left, Y: top, W: w, H: innerH}, AutoHeight: true}, true
	case graph.DockRight:
		return Box{Rect: geom.Rect{X: right - w, Y: top, W: w, H: innerH}, AutoHeight: true}, true
	case graph.DockTL:
		return Box{Rect: geom.Rect{X: left, Y: top, W: w, H: h}}, true
	case graph.DockTR:
		return Box{Rect: geom.Rect{X: right - w, Y: top, W: w, H: h}}, true
	case graph.DockBL:
		return Box{Rect: geom.Rect{X: left, Y: bottom - h, W: w, H: h}}, true
	case graph.DockBR:
		return Box{Rect: geom.Rect{X: right - w, Y: bottom - h, W: w, H: h}}, true
	case graph.DockQ1, graph.DockQ2, graph.DockQ3, graph.DockQ4:
		strip := innerW / 4
		x := left + float64(quadrantIndex(mode))*strip
		return Box{
			Rect:       geom.Rect{X: x, Y: top, W: w, H: innerH},
			AutoHeight: true,
			Clip:       geom.Rect{X: x, Y: top, W: strip, H: innerH},
		}, true
	}
	return Box{}, false
}

// Focus is the box of a focused node: the whole screen.
func Focus(screen geom.Rect) Box {
	r := geom.Rect{
		X: geom.OrDefault(screen.X, 0),
		Y: geom.OrDefault(screen.Y, 0),
		W: max(geom.OrDefault(screen.W, 0), 0),
		H: max(geom.OrDefault(screen.H, 0), 0),
	}
	return Box{Rect: r, AutoWidth: true, AutoHeight: true, Focused: true}
}

// For returns the screen box of n, or false when n floats on the canvas
// unfocused. Focus overrides the dock mode without changing it.
func For(n graph.Node, screen geom.Rect, margin float64) (Box, bool) {
	if n.IsFocused {
		return Focus(screen), true
	}
	w, h := n.Size()
	return Place(n.Mode(), w, h, screen, margin)
}

func quadrantIndex(m graph.DockMode) int {
	for i, q := range quadrants {
		if q == m {
			return i
		}
	}
	return 0
}
