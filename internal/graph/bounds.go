package graph

import "weft/internal/geom"

const (
	// GroupPadding surrounds the members on the left, right and bottom.
	GroupPadding = 30.0
	// GroupTitlePadding leaves room for the title bar above the members.
	GroupTitlePadding = 70.0
)

// GroupBounds returns the padded union of the nodes' footprints, or nil when
// nodes is empty.
func GroupBounds(nodes []Node) *geom.Rect {
	if len(nodes) == 0 {
		return nil
	}
	box := nodes[0].Footprint()
	for _, n := range nodes[1:] {
		box = box.Union(n.Footprint())
	}
	box = box.Inset(-GroupPadding, -GroupTitlePadding, -GroupPadding, -GroupPadding)
	return &box
}
