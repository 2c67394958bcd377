package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weft/internal/geom"
)

func textNode(id string, x, y, w, h float64) Node {
	return Node{ID: id, Type: TypeTextInput, Position: geom.Point{X: x, Y: y}, Width: w, Height: h}
}

func TestGroupBounds_PaddedUnion(t *testing.T) {
	a := textNode("a", 0, 0, 460, 300)
	b := textNode("b", 600, 100, 300, 200)

	got := GroupBounds([]Node{a, b})
	require.NotNil(t, got)
	assert.Equal(t, geom.Rect{X: -30, Y: -70, W: 960, H: 400}, *got)
}

func TestGroupBounds_GrowsWithOutsideNode(t *testing.T) {
	a := textNode("a", 0, 0, 460, 300)
	b := textNode("b", 600, 100, 300, 200)
	before := GroupBounds([]Node{a, b})

	c := textNode("c", 1000, 500, 300, 200)
	after := GroupBounds([]Node{a, b, c})

	require.NotNil(t, after)
	assert.Equal(t, geom.Rect{X: -30, Y: -70, W: 1360, H: 800}, *after)
	assert.Greater(t, after.W, before.W)
	assert.Greater(t, after.H, before.H)
}

func TestGroupBounds_Empty(t *testing.T) {
	assert.Nil(t, GroupBounds(nil))
	assert.Nil(t, GroupBounds([]Node{}))
}

func TestGroupBounds_CollapsedUsesCollapsedHeight(t *testing.T) {
	a := textNode("a", 0, 0, 460, 300)
	a.IsCollapsed = true

	got := GroupBounds([]Node{a})
	require.NotNil(t, got)
	assert.Equal(t, 48.0+GroupTitlePadding+GroupPadding, got.H)
}

func TestStore_AddGroup(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 0, 0, 460, 300))
	b, _ := s.AddNode(textNode("b", 600, 100, 300, 200))

	g1, ok := s.AddGroup([]Node{a, b}, "")
	require.True(t, ok)
	assert.Equal(t, "group-1", g1.ID)
	assert.Equal(t, "Group 1", g1.Title)
	assert.Equal(t, []string{"a", "b"}, g1.NodeIDs)

	gid, ok := s.GroupOf("a")
	assert.True(t, ok)
	assert.Equal(t, "group-1", gid)

	// Re-grouping a member moves it into the new group.
	g2, ok := s.AddGroup([]Node{b}, "Only B")
	require.True(t, ok)
	assert.Equal(t, "group-2", g2.ID)

	m := s.Membership()
	assert.Equal(t, "group-1", m["a"])
	assert.Equal(t, "group-2", m["b"])

	g1, _ = s.Group("group-1")
	assert.Equal(t, []string{"a"}, g1.NodeIDs)
	assert.Equal(t, 460.0+2*GroupPadding, g1.Width)
}

func TestStore_AddGroup_EmptyIsNoop(t *testing.T) {
	s := NewStore()
	rev := s.Revision()

	_, ok := s.AddGroup(nil, "nothing")

	assert.False(t, ok)
	assert.Empty(t, s.Groups())
	assert.Equal(t, rev, s.Revision())
}

func TestStore_RemoveGroup_LeavesMembers(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 10, 20, 460, 300))
	g, _ := s.AddGroup([]Node{a}, "")

	require.NoError(t, s.RemoveGroup(g.ID))

	assert.Empty(t, s.Groups())
	assert.Empty(t, s.Membership())
	n, ok := s.Node("a")
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 10, Y: 20}, n.Position)

	assert.ErrorIs(t, s.RemoveGroup(g.ID), ErrGroupNotFound)
}

func TestStore_GroupFollowsMemberGeometry(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 0, 0, 460, 300))
	g, _ := s.AddGroup([]Node{a}, "")

	require.NoError(t, s.MoveNode("a", geom.Point{X: 100, Y: 100}))
	g, _ = s.Group(g.ID)
	assert.Equal(t, geom.Point{X: 70, Y: 30}, g.Position)

	require.NoError(t, s.ResizeNode("a", 600, 400))
	g, _ = s.Group(g.ID)
	assert.Equal(t, 660.0, g.Width)
	assert.Equal(t, 500.0, g.Height)

	require.NoError(t, s.SetCollapsed("a", true))
	g, _ = s.Group(g.ID)
	assert.Equal(t, 148.0, g.Height)
}

func TestStore_UpdateGroupBounds_IgnoresMissingMembers(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 0, 0, 460, 300))
	b, _ := s.AddNode(textNode("b", 1000, 0, 460, 300))
	g, _ := s.AddGroup([]Node{a, b}, "")

	require.NoError(t, s.UpdateGroupBounds(g.ID, []Node{a}))
	g, _ = s.Group(g.ID)
	assert.Equal(t, 520.0, g.Width)

	assert.ErrorIs(t, s.UpdateGroupBounds("group-99", nil), ErrGroupNotFound)
}

func TestStore_DetachAndMoveGroup(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 0, 0, 460, 300))
	b, _ := s.AddNode(textNode("b", 1000, 0, 460, 300))
	g, _ := s.AddGroup([]Node{a, b}, "")

	require.NoError(t, s.MoveGroup(g.ID, geom.Point{X: 10, Y: 5}))
	moved, _ := s.Node("b")
	assert.Equal(t, geom.Point{X: 1010, Y: 5}, moved.Position)

	require.NoError(t, s.DetachFromGroup(g.ID, "b"))
	g, _ = s.Group(g.ID)
	assert.Equal(t, []string{"a"}, g.NodeIDs)
	assert.Equal(t, 520.0, g.Width)
	_, ok := s.GroupOf("b")
	assert.False(t, ok)

	assert.ErrorIs(t, s.DetachFromGroup(g.ID, "b"), ErrNodeNotFound)
}

func TestStore_GroupIDsSurviveLoadDocument(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(textNode("a", 0, 0, 460, 300))
	before := s.Document()

	g1, ok := s.AddGroup([]Node{a}, "")
	require.True(t, ok)
	assert.Equal(t, "group-1", g1.ID)

	s.LoadDocument(before)
	g2, ok := s.AddGroup([]Node{a}, "")
	require.True(t, ok)
	assert.Equal(t, "group-2", g2.ID)

	s.LoadDocument(Document{Nodes: []Node{a}, Groups: []Group{{ID: "group-7", NodeIDs: []string{"a"}}}})
	g3, _ := s.AddGroup([]Node{a}, "")
	assert.Equal(t, "group-8", g3.ID)
}
