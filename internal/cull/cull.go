// Package cull selects the nodes, wires and groups worth drawing for the
// current view.
package cull

import (
	"slices"
	"strings"

	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/viewport"
)

// DefaultBuffer is the screen-space margin kept around the visible area.
const DefaultBuffer = 300.0

// Input is everything visibility depends on.
type Input struct {
	Nodes       []graph.Node
	Connections []graph.Connection
	Groups      []graph.Group

	Transform viewport.Transform
	// Width and Height are the canvas size in screen units.
	Width, Height float64
	// Dragging holds the grab offsets of nodes in an active drag, keyed by
	// node id.
	Dragging map[string]geom.Point
	// Buffer is the margin in screen units. Zero means DefaultBuffer.
	Buffer float64
}

// Result is the visible subset of an Input, in input order.
type Result struct {
	Nodes       []graph.Node
	Connections []graph.Connection
	Groups      []graph.Group

	ids map[string]struct{}
}

// Visible reports whether the node with the given id is in the result.
func (r Result) Visible(id string) bool {
	_, ok := r.ids[id]
	return ok
}

// ViewRect returns the world rectangle covered by a width×height canvas under
// t, grown by bufferPx screen units on every side.
func ViewRect(t viewport.Transform, width, height, bufferPx float64) geom.Rect {
	t = t.Sanitize()
	width = geom.OrDefault(width, 0)
	height = geom.OrDefault(height, 0)
	if !geom.IsFinite(bufferPx) || bufferPx < 0 {
		bufferPx = DefaultBuffer
	}
	buf := bufferPx / t.Scale
	left := -t.Translate.X/t.Scale - buf
	top := -t.Translate.Y/t.Scale - buf
	right := (width-t.Translate.X)/t.Scale + buf
	bottom := (height-t.Translate.Y)/t.Scale + buf
	return geom.Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// ComputeVisible returns the entities to draw. Docked, pinned and dragged
// nodes are always visible; other nodes and groups are visible when they
// intersect the buffered view. A wire is visible when both ends exist and at
// least one end is visible.
func ComputeVisible(in Input) Result {
	buffer := in.Buffer
	if buffer == 0 {
		buffer = DefaultBuffer
	}
	view := ViewRect(in.Transform, in.Width, in.Height, buffer)

	res := Result{ids: make(map[string]struct{}, len(in.Nodes))}
	exists := make(map[string]struct{}, len(in.Nodes))
	for _, n := range in.Nodes {
		exists[n.ID] = struct{}{}
		_, dragging := in.Dragging[n.ID]
		if n.Docked() || n.IsPinned || dragging || n.Footprint().Intersects(view) {
			res.Nodes = append(res.Nodes, n)
			res.ids[n.ID] = struct{}{}
		}
	}

	for _, c := range in.Connections {
		_, fromOK := exists[c.FromNodeID]
		_, toOK := exists[c.ToNodeID]
		if !fromOK || !toOK {
			continue
		}
		if res.Visible(c.FromNodeID) || res.Visible(c.ToNodeID) {
			res.Connections = append(res.Connections, c)
		}
	}

	for _, g := range in.Groups {
		if g.Bounds().Intersects(view) {
			res.Groups = append(res.Groups, g)
		}
	}
	return res
}

type memoKey struct {
	revision      uint64
	transform     viewport.Transform
	width, height float64
	buffer        float64
	dragging      string
}

// Memo caches the last ComputeVisible result. Entity slices are identified by
// the store revision they were read at, so callers must pass the revision
// that matches in.Nodes, in.Connections and in.Groups.
type Memo struct {
	key    memoKey
	valid  bool
	result Result
}

// Compute returns ComputeVisible(in), reusing the previous result when
// nothing it depends on has changed.
func (m *Memo) Compute(revision uint64, in Input) Result {
	k := memoKey{
		revision:  revision,
		transform: in.Transform,
		width:     in.Width,
		height:    in.Height,
		buffer:    in.Buffer,
		dragging:  dragKey(in.Dragging),
	}
	if m.valid && k == m.key {
		return m.result
	}
	m.key, m.valid = k, true
	m.result = ComputeVisible(in)
	return m.result
}

// Invalidate forces the next Compute to recalculate.
func (m *Memo) Invalidate() {
	m.valid = false
}

func dragKey(d map[string]geom.Point) string {
	if len(d) == 0 {
		return ""
	}
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return strings.Join(ids, "\x00")
}
