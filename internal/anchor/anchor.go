// Package anchor computes where wires attach to nodes.
//
// Anchor positions depend on the node type, its size, whether it is
// collapsed or docked, and on a few layout fields carried in the node's value
// payload. Every function here is read-only and safe to call once per wire
// per frame.
package anchor

import (
	"fmt"

	"weft/internal/geom"
	"weft/internal/graph"
)

const (
	HeaderHeight = 40.0
	ResizerGap   = 16.0

	// ProxyWidth and ProxyHeight size the placeholder a docked node leaves
	// on the canvas.
	ProxyWidth  = 160.0
	ProxyHeight = 48.0

	conceptsCollapsedHeight = 37.0
	conceptsNormalHeight    = 390.0

	videoPortOffset  = 20.0
	videoPortSpacing = 50.0

	characterCardBottom = 20.0
	imageInputBottom    = 30.0
)

// Handle is one connection point of a node.
type Handle struct {
	ID    string
	Input bool
	// Local is the anchor relative to the node's top-left corner.
	Local geom.Point
}

// Resolver resolves anchors using a shared layout cache.
type Resolver struct {
	cache *Cache
}

// NewResolver returns a resolver whose layout cache holds up to limit entries.
func NewResolver(limit int) *Resolver {
	return &Resolver{cache: NewCache(limit)}
}

// Resolve returns the world position of handle handleID on n. The empty id
// names the node's default port. ok is false when n does not currently expose
// the handle; p is then the default port so the wire can still be drawn.
func (r *Resolver) Resolve(n graph.Node, handleID string, isInput bool) (p geom.Point, ok bool) {
	local, ok := r.Local(n, handleID, isInput)
	return n.Pos().Add(local), ok
}

// Local is Resolve in node-local coordinates.
func (r *Resolver) Local(n graph.Node, handleID string, isInput bool) (geom.Point, bool) {
	return local(n, r.cache.Layout(n.Type, n.Value), handleID, isInput)
}

// Handles lists the handles n exposes on one side.
func (r *Resolver) Handles(n graph.Node, isInput bool) []Handle {
	return handles(n, r.cache.Layout(n.Type, n.Value), isInput)
}

// Resolve is Resolver.Resolve without layout caching.
func Resolve(n graph.Node, handleID string, isInput bool) (geom.Point, bool) {
	l, ok := Local(n, handleID, isInput)
	return n.Pos().Add(l), ok
}

// Local is Resolver.Local without layout caching.
func Local(n graph.Node, handleID string, isInput bool) (geom.Point, bool) {
	return local(n, Decode(n.Type, n.Value), handleID, isInput)
}

// Handles is Resolver.Handles without layout caching.
func Handles(n graph.Node, isInput bool) []Handle {
	return handles(n, Decode(n.Type, n.Value), isInput)
}

func local(n graph.Node, l Layout, handleID string, isInput bool) (geom.Point, bool) {
	hs := handles(n, l, isInput)
	for _, h := range hs {
		if h.ID == handleID {
			return h.Local, true
		}
	}
	w, h := box(n)
	def := defaultPort(w, h, isInput)
	if handleID == "" {
		// Single-port sides list a named handle; an unnamed wire still lands
		// on it.
		if len(hs) == 1 {
			return hs[0].Local, true
		}
		return def, true
	}
	return def, false
}

// box is the size of the rectangle the handles are laid out against.
func box(n graph.Node) (w, h float64) {
	w, h = n.Size()
	switch {
	case n.Type == graph.TypeRerouteDot:
		return w, h
	case n.Docked():
		return ProxyWidth, ProxyHeight
	case n.Type == graph.TypeVideoEditor:
		return w, h
	case n.IsCollapsed:
		return w, n.Type.Info().CollapsedHeight
	}
	return w, h
}

func defaultPort(w, h float64, isInput bool) geom.Point {
	if isInput {
		return geom.Point{X: 0, Y: h / 2}
	}
	return geom.Point{X: w, Y: h / 2}
}

func handles(n graph.Node, l Layout, isInput bool) []Handle {
	w, h := box(n)
	x := w
	if isInput {
		x = 0
	}

	if rl, ok := l.(RerouteLayout); ok && n.Type == graph.TypeRerouteDot {
		// Inputs enter on the left unless the dot is reversed.
		if isInput == rl.Reversed() {
			x = w
		} else {
			x = 0
		}
		return []Handle{{ID: "", Input: isInput, Local: geom.Point{X: x, Y: h / 2}}}
	}

	ids := Ports(n, l, isInput)
	if len(ids) == 0 {
		return nil
	}

	if n.Docked() || (n.IsCollapsed && n.Type != graph.TypeVideoEditor) {
		return spread(ids, isInput, x, 0, h)
	}

	switch lay := l.(type) {
	case ImageEditorLayout:
		if isInput {
			return imageEditorInputs(lay, ids, h)
		}
	case SequenceGeneratorLayout:
		if isInput {
			return sequenceGeneratorInputs(lay, ids, h)
		}
	}

	switch n.Type {
	case graph.TypeVideoEditor:
		if isInput {
			out := make([]Handle, len(ids))
			for i, id := range ids {
				out[i] = Handle{ID: id, Input: true, Local: geom.Point{
					X: 0,
					Y: HeaderHeight + videoPortOffset + float64(i)*videoPortSpacing,
				}}
			}
			return out
		}
	case graph.TypeCharacterCard:
		if !isInput {
			return spread(ids, false, x, HeaderHeight, h-HeaderHeight-characterCardBottom)
		}
	case graph.TypePromptAnalyzer:
		if !isInput {
			return spread(ids, false, x, HeaderHeight, h-HeaderHeight)
		}
	case graph.TypeImageInput, graph.TypeImageAnalyzer:
		if !isInput && len(ids) == 2 {
			content := h - HeaderHeight
			return []Handle{
				{ID: ids[0], Local: geom.Point{X: x, Y: HeaderHeight + content/4}},
				{ID: ids[1], Local: geom.Point{X: x, Y: h - imageInputBottom}},
			}
		}
	}

	if len(ids) == 1 {
		return []Handle{{ID: ids[0], Input: isInput, Local: defaultPort(w, h, isInput)}}
	}
	return spread(ids, isInput, x, 0, h)
}

// spread places ids evenly over [top, top+span].
func spread(ids []string, isInput bool, x, top, span float64) []Handle {
	out := make([]Handle, len(ids))
	step := span / float64(len(ids)+1)
	for i, id := range ids {
		out[i] = Handle{ID: id, Input: isInput, Local: geom.Point{X: x, Y: top + float64(i+1)*step}}
	}
	return out
}

func imageEditorInputs(l ImageEditorLayout, ids []string, h float64) []Handle {
	top := l.TopPaneHeight
	out := make([]Handle, 0, len(ids))
	for _, id := range ids {
		var y float64
		switch id {
		case "image":
			y = HeaderHeight + top/2
		case "image-a":
			y = HeaderHeight + top/4
		case "image-b":
			if l.PromptsOnly() {
				y = HeaderHeight + top/2
			} else {
				y = HeaderHeight + top*3/4
			}
		case "text":
			start := HeaderHeight + top + ResizerGap
			y = start + (h-start)/2
		}
		out = append(out, Handle{ID: id, Input: true, Local: geom.Point{X: 0, Y: y}})
	}
	return out
}

func sequenceGeneratorInputs(l SequenceGeneratorLayout, ids []string, h float64) []Handle {
	var concepts float64
	switch l.ConceptsMode {
	case ConceptsCollapsed:
		concepts = conceptsCollapsedHeight
	case ConceptsExpanded:
		concepts = h - HeaderHeight
	default:
		concepts = conceptsNormalHeight
	}
	out := make([]Handle, 0, len(ids))
	for _, id := range ids {
		var y float64
		switch id {
		case "concepts":
			y = HeaderHeight + concepts/2
		case "prompt":
			start := HeaderHeight + concepts
			y = start + (h-start)/2
		}
		out = append(out, Handle{ID: id, Input: true, Local: geom.Point{X: 0, Y: y}})
	}
	return out
}

var characterProperties = []string{"image", "prompt", "appearance", "personality", "clothing"}

// sourceTypes take no inputs.
var sourceTypes = map[graph.NodeType]bool{
	graph.TypeTextInput:    true,
	graph.TypeImageInput:   true,
	graph.TypeAudioInput:   true,
	graph.TypeColorPalette: true,
}

// Ports returns the ids of the ports n currently exposes on one side, in
// layout order. The empty id is the node's single unnamed port.
func Ports(n graph.Node, l Layout, isInput bool) []string {
	if n.Type == graph.TypeNote {
		return nil
	}
	if isInput && sourceTypes[n.Type] {
		return nil
	}

	switch lay := l.(type) {
	case RerouteLayout:
		return []string{""}
	case ImageEditorLayout:
		if !isInput {
			return []string{"image"}
		}
		switch {
		case lay.PromptsOnly():
			return []string{"image-b", "text"}
		case lay.Combination():
			return []string{"image-a", "image-b", "text"}
		}
		return []string{"image", "text"}
	case SequenceGeneratorLayout:
		if !isInput {
			return []string{"images"}
		}
		if lay.ConceptsMode == ConceptsExpanded {
			return []string{"concepts"}
		}
		return []string{"concepts", "prompt"}
	case PromptAnalyzerLayout:
		if isInput {
			return []string{""}
		}
		ids := []string{"subject", "style", "setting", "mood"}
		for i := 0; i < lay.CharacterCount(); i++ {
			ids = append(ids, fmt.Sprintf("character-%d", i))
		}
		return ids
	}

	if isInput {
		if n.Type == graph.TypeVideoEditor {
			return []string{"video", "audio", "image", "text"}
		}
		return []string{""}
	}

	switch n.Type {
	case graph.TypeVideoEditor:
		return []string{"video"}
	case graph.TypeCharacterCard:
		ids := []string{"all_data", "primary_data"}
		if !n.CollapsedHandles {
			ids = append(ids, characterProperties...)
		}
		return ids
	case graph.TypeImageInput:
		return []string{"image", "prompt"}
	case graph.TypeImageAnalyzer:
		return []string{"image", "analysis"}
	}
	return []string{""}
}
