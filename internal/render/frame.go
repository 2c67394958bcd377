// Package render draws the canvas as terminal text or as a PNG image.
package render

import (
	"weft/internal/anchor"
	"weft/internal/cull"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/viewport"
)

// Wire is a visible connection with its resolved endpoints in world space.
type Wire struct {
	graph.Connection
	From, To geom.Point
}

// Frame is everything needed to draw one view of the canvas.
type Frame struct {
	Nodes  []graph.Node
	Wires  []Wire
	Groups []graph.Group
	// Panels are docked and focused nodes in screen space, lowest first.
	Panels []dock.Panel

	View     viewport.Transform
	Screen   geom.Rect
	Handles  map[string][]anchor.Handle
	Selected map[string]bool

	// Preview is a wire being drawn, in world space.
	Preview *Wire
}

// Scene wires the engine together for one canvas.
type Scene struct {
	Store    *graph.Store
	View     *viewport.Viewport
	Resolver *anchor.Resolver
	Dock     *dock.Machine
	Memo     *cull.Memo
	// Buffer is the culling margin in screen units.
	Buffer float64
}

// NewScene returns a scene over s with default collaborators.
func NewScene(s *graph.Store, v *viewport.Viewport, m *dock.Machine) *Scene {
	return &Scene{
		Store:    s,
		View:     v,
		Resolver: anchor.NewResolver(0),
		Dock:     m,
		Memo:     &cull.Memo{},
		Buffer:   cull.DefaultBuffer,
	}
}

// Visible returns the culled entity set for the current view.
func (sc *Scene) Visible(dragging map[string]geom.Point) cull.Result {
	in := cull.Input{
		Nodes:       sc.Store.Nodes(),
		Connections: sc.Store.Connections(),
		Groups:      sc.Store.Groups(),
		Transform:   sc.View.Transform,
		Width:       sc.View.Rect.W,
		Height:      sc.View.Rect.H,
		Dragging:    dragging,
		Buffer:      sc.Buffer,
	}
	if sc.Memo == nil {
		return cull.ComputeVisible(in)
	}
	return sc.Memo.Compute(sc.Store.Revision(), in)
}

// Frame builds the drawable frame. selected marks highlighted nodes and
// dragging holds the ids of nodes in an active drag.
func (sc *Scene) Frame(selected map[string]bool, dragging map[string]geom.Point) Frame {
	vis := sc.Visible(dragging)
	f := Frame{
		Groups:   vis.Groups,
		View:     sc.View.Transform,
		Screen:   sc.View.Rect,
		Handles:  make(map[string][]anchor.Handle, len(vis.Nodes)),
		Selected: selected,
	}

	byID := make(map[string]graph.Node, len(vis.Nodes))
	for _, n := range vis.Nodes {
		f.Nodes = append(f.Nodes, n)
		byID[n.ID] = n
		hs := append(sc.Resolver.Handles(n, true), sc.Resolver.Handles(n, false)...)
		f.Handles[n.ID] = hs
	}

	for _, c := range vis.Connections {
		from, ok := byID[c.FromNodeID]
		if !ok {
			from, ok = sc.Store.Node(c.FromNodeID)
		}
		to, ok2 := byID[c.ToNodeID]
		if !ok2 {
			to, ok2 = sc.Store.Node(c.ToNodeID)
		}
		if !ok || !ok2 {
			continue
		}
		a, _ := sc.Resolver.Resolve(from, c.FromHandleID, false)
		b, _ := sc.Resolver.Resolve(to, c.ToHandleID, true)
		f.Wires = append(f.Wires, Wire{Connection: c, From: a, To: b})
	}

	if sc.Dock != nil {
		f.Panels = sc.Dock.Panels(vis.Nodes, geom.Rect{W: sc.View.Rect.W, H: sc.View.Rect.H})
	}
	return f
}

// FullFrame builds a frame holding the whole canvas with no culling and no
// panels. Wires with a missing end are dropped.
func (sc *Scene) FullFrame(selected map[string]bool) Frame {
	nodes := sc.Store.Nodes()
	f := Frame{
		Nodes:    nodes,
		Groups:   sc.Store.Groups(),
		View:     sc.View.Transform,
		Screen:   sc.View.Rect,
		Handles:  make(map[string][]anchor.Handle, len(nodes)),
		Selected: selected,
	}
	for _, n := range nodes {
		f.Handles[n.ID] = append(sc.Resolver.Handles(n, true), sc.Resolver.Handles(n, false)...)
	}
	for _, c := range sc.Store.Connections() {
		from, ok := sc.Store.Node(c.FromNodeID)
		to, ok2 := sc.Store.Node(c.ToNodeID)
		if !ok || !ok2 {
			continue
		}
		a, _ := sc.Resolver.Resolve(from, c.FromHandleID, false)
		b, _ := sc.Resolver.Resolve(to, c.ToHandleID, true)
		f.Wires = append(f.Wires, Wire{Connection: c, From: a, To: b})
	}
	return f
}

// ToScreen maps a world point into viewport-local screen space.
func (f Frame) ToScreen(p geom.Point) geom.Point {
	return f.View.Apply(p)
}

// ToWorld maps a viewport-local screen point into world space.
func (f Frame) ToWorld(p geom.Point) geom.Point {
	return f.View.Invert(p)
}

// NodeBox returns the on-canvas rectangle of n in world space. Docked nodes
// leave a proxy behind.
func NodeBox(n graph.Node) geom.Rect {
	if n.Docked() && n.Type != graph.TypeRerouteDot {
		p := n.Pos()
		return geom.Rect{X: p.X, Y: p.Y, W: anchor.ProxyWidth, H: anchor.ProxyHeight}
	}
	return n.Footprint()
}

// NodeAt returns the topmost canvas node under world point p.
func (f Frame) NodeAt(p geom.Point) (graph.Node, bool) {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		if NodeBox(f.Nodes[i]).Contains(p) {
			return f.Nodes[i], true
		}
	}
	return graph.Node{}, false
}

// PanelAt returns the topmost panel under viewport-local screen point p.
func (f Frame) PanelAt(p geom.Point) (dock.Panel, bool) {
	for i := len(f.Panels) - 1; i >= 0; i-- {
		b := f.Panels[i].Box
		r := b.Rect
		if b.Clip.W > 0 {
			r = b.Clip
		}
		if r.Contains(p) {
			return f.Panels[i], true
		}
	}
	return dock.Panel{}, false
}

// HandleAt returns the handle within radius world units of p.
func (f Frame) HandleAt(p geom.Point, radius float64) (graph.Node, anchor.Handle, bool) {
	best := radius
	var (
		hitNode graph.Node
		hit     anchor.Handle
		found   bool
	)
	for _, n := range f.Nodes {
		origin := n.Pos()
		for _, h := range f.Handles[n.ID] {
			if d := origin.Add(h.Local).Dist(p); d <= best {
				best, hitNode, hit, found = d, n, h, true
			}
		}
	}
	return hitNode, hit, found
}

// WireAt returns the wire passing within threshold world units of p.
func (f Frame) WireAt(p geom.Point, threshold float64) (Wire, bool) {
	for i := len(f.Wires) - 1; i >= 0; i-- {
		w := f.Wires[i]
		if geom.IsNearConnection(p, w.From, w.To, threshold) {
			return w, true
		}
	}
	return Wire{}, false
}
