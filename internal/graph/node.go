package graph

import (
	"github.com/google/uuid"

	"weft/internal/geom"
)

// DockMode names the screen region a docked node occupies.
type DockMode string

const (
	DockFull  DockMode = "full"
	DockLeft  DockMode = "left"
	DockRight DockMode = "right"
	DockTL    DockMode = "tl"
	DockTR    DockMode = "tr"
	DockBL    DockMode = "bl"
	DockBR    DockMode = "br"
	DockQ1    DockMode = "q1"
	DockQ2    DockMode = "q2"
	DockQ3    DockMode = "q3"
	DockQ4    DockMode = "q4"
)

// Valid reports whether m is one of the eleven docked modes.
func (m DockMode) Valid() bool {
	switch m {
	case DockFull, DockLeft, DockRight, DockTL, DockTR, DockBL, DockBR,
		DockQ1, DockQ2, DockQ3, DockQ4:
		return true
	}
	return false
}

// DockState is attached to a node while it is docked. A nil DockState means
// the node floats freely on the canvas.
type DockState struct {
	Mode DockMode `json:"mode"`
}

// Node is one pipeline stage on the canvas.
type Node struct {
	ID               string     `json:"id"`
	Type             NodeType   `json:"type"`
	Position         geom.Point `json:"position"`
	Width            float64    `json:"width"`
	Height           float64    `json:"height"`
	IsCollapsed      bool       `json:"isCollapsed"`
	IsPinned         bool       `json:"isPinned"`
	DockState        *DockState `json:"dockState"`
	Value            string     `json:"value"`
	CollapsedHandles bool       `json:"collapsedHandles"`

	// IsFocused marks the node as shown full screen. It is session state and
	// is not persisted.
	IsFocused bool `json:"-"`
}

// NewNode returns a node of the given type at pos with the type's default
// size and empty payload.
func NewNode(t NodeType, pos geom.Point) Node {
	info := t.Info()
	return Node{
		ID:       NewID(),
		Type:     t,
		Position: pos.Sanitize(),
		Width:    info.DefaultWidth,
		Height:   info.DefaultHeight,
		Value:    info.EmptyValue,
	}
}

// NewID returns a fresh random identifier for nodes and connections.
func NewID() string {
	return uuid.NewString()
}

// Docked reports whether the node has a dock mode.
func (n Node) Docked() bool {
	return n.DockState != nil && n.DockState.Mode.Valid()
}

// Mode returns the node's dock mode, or "" when it floats.
func (n Node) Mode() DockMode {
	if !n.Docked() {
		return ""
	}
	return n.DockState.Mode
}

// Pos returns the node position with non-finite coordinates replaced by 0.
func (n Node) Pos() geom.Point {
	return n.Position.Sanitize()
}

// Size returns the node's expanded width and height. Corrupt values fall
// back to the type default and, except for reroute dots, the result never
// drops below the type minimum.
func (n Node) Size() (float64, float64) {
	return clampSize(n.Type, n.Width, n.Height)
}

// Footprint returns the rectangle the node covers on the canvas, using the
// collapsed height when the node is collapsed.
func (n Node) Footprint() geom.Rect {
	w, h := n.Size()
	if n.IsCollapsed && n.Type != TypeRerouteDot {
		h = n.Type.Info().CollapsedHeight
	}
	p := n.Pos()
	return geom.Rect{X: p.X, Y: p.Y, W: w, H: h}
}

// Title is the label drawn in the node header.
func (n Node) Title() string {
	return n.Type.Info().Label
}

// Connection is a directed wire from an output handle to an input handle.
// Empty handle ids mean the node's single default port.
type Connection struct {
	ID           string `json:"id"`
	FromNodeID   string `json:"fromNodeId"`
	ToNodeID     string `json:"toNodeId"`
	FromHandleID string `json:"fromHandleId,omitempty"`
	ToHandleID   string `json:"toHandleId,omitempty"`
}

// Group is a titled frame around a set of nodes. Its bounds are always
// derived from the members, never edited directly.
type Group struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Position geom.Point `json:"position"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	NodeIDs  []string   `json:"nodeIds"`
}

// Bounds returns the group frame as a rectangle.
func (g Group) Bounds() geom.Rect {
	p := g.Position.Sanitize()
	return geom.Rect{X: p.X, Y: p.Y, W: geom.OrDefault(g.Width, 0), H: geom.OrDefault(g.Height, 0)}
}

// Has reports whether id is a member of the group.
func (g Group) Has(id string) bool {
	for _, m := range g.NodeIDs {
		if m == id {
			return true
		}
	}
	return false
}
