package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weft/internal/geom"
	"weft/internal/graph"
)

func newStore(t *testing.T, nodes ...graph.Node) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	for _, n := range nodes {
		_, err := s.AddNode(n)
		require.NoError(t, err)
	}
	return s
}

func textNode(id string) graph.Node {
	return graph.Node{ID: id, Type: graph.TypeTextInput, Width: 460, Height: 300}
}

func TestNext_QuadrantCycleClamps(t *testing.T) {
	mode := graph.DockQ1
	var err error
	for _, want := range []graph.DockMode{graph.DockQ2, graph.DockQ3, graph.DockQ4, graph.DockQ4} {
		mode, err = Next(graph.TypeTextInput, mode, EventCycleNext)
		require.NoError(t, err)
		assert.Equal(t, want, mode)
	}

	for _, want := range []graph.DockMode{graph.DockQ3, graph.DockQ2, graph.DockQ1, graph.DockQ1} {
		mode, err = Next(graph.TypeTextInput, mode, EventCyclePrev)
		require.NoError(t, err)
		assert.Equal(t, want, mode)
	}
}

func TestNext_VerticalToggle(t *testing.T) {
	tests := map[graph.DockMode]graph.DockMode{
		graph.DockTL: graph.DockBL,
		graph.DockBL: graph.DockTL,
		graph.DockTR: graph.DockBR,
		graph.DockBR: graph.DockTR,
	}
	for from, want := range tests {
		got, err := Next(graph.TypeNote, from, EventCycleVertical)
		require.NoError(t, err, from)
		assert.Equal(t, want, got, from)
	}

	_, err := Next(graph.TypeNote, graph.DockLeft, EventCycleVertical)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestNext_CyclingNeedsQuadrant(t *testing.T) {
	for _, from := range []graph.DockMode{Free, graph.DockFull, graph.DockLeft, graph.DockTR} {
		got, err := Next(graph.TypeTextInput, from, EventCycleNext)
		assert.ErrorIs(t, err, ErrIllegalTransition, from)
		assert.Equal(t, from, got, "state unchanged on rejection")
	}
}

func TestNext_RestrictedTypes(t *testing.T) {
	for _, typ := range []graph.NodeType{graph.TypeScriptViewer, graph.TypeMediaViewer, graph.TypePoseCreator} {
		for _, to := range restrictedTargets {
			got, err := Next(typ, Free, DockTo(to))
			require.NoError(t, err, typ)
			assert.Equal(t, to, got)
		}

		_, err := Next(typ, Free, DockTo(graph.DockQ1))
		assert.ErrorIs(t, err, ErrIllegalTransition, typ)
		_, err = Next(typ, Free, DockTo(graph.DockFull))
		assert.ErrorIs(t, err, ErrIllegalTransition, typ)
		_, err = Next(typ, graph.DockTL, EventCycleVertical)
		assert.ErrorIs(t, err, ErrIllegalTransition, typ)
		_, err = Next(typ, graph.DockQ2, EventCycleNext)
		assert.ErrorIs(t, err, ErrIllegalTransition, "a restricted node loaded in a quadrant still cannot cycle")

		got, err := Next(typ, graph.DockQ2, EventUndock)
		require.NoError(t, err)
		assert.Equal(t, Free, got)
	}
}

func TestNext_NotDockable(t *testing.T) {
	_, err := Next(graph.TypeRerouteDot, Free, DockTo(graph.DockLeft))
	assert.ErrorIs(t, err, ErrNotDockable)

	got, err := Next(graph.TypeRerouteDot, graph.DockLeft, EventUndock)
	require.NoError(t, err)
	assert.Equal(t, Free, got)
}

func TestNext_DockFromAnyState(t *testing.T) {
	for _, from := range append([]graph.DockMode{Free}, States...) {
		for _, to := range States {
			got, err := Next(graph.TypeStoryboard, from, DockTo(to))
			require.NoError(t, err)
			assert.Equal(t, to, got)
		}
	}

	got, err := Next(graph.TypeStoryboard, graph.DockMode("sideways"), DockTo(graph.DockLeft))
	require.NoError(t, err, "unknown modes are treated as free")
	assert.Equal(t, graph.DockLeft, got)
}

func TestPlace(t *testing.T) {
	screen := geom.Rect{W: 1280, H: 800}
	const m = DefaultMargin

	tests := []struct {
		mode graph.DockMode
		want geom.Rect
		clip geom.Rect
	}{
		{graph.DockFull, geom.Rect{X: m, Y: m, W: 1280 - 2*m, H: 800 - 2*m}, geom.Rect{}},
		{graph.DockLeft, geom.Rect{X: m, Y: m, W: 400, H: 800 - 2*m}, geom.Rect{}},
		{graph.DockRight, geom.Rect{X: 1280 - m - 400, Y: m, W: 400, H: 800 - 2*m}, geom.Rect{}},
		{graph.DockTL, geom.Rect{X: m, Y: m, W: 400, H: 300}, geom.Rect{}},
		{graph.DockTR, geom.Rect{X: 1280 - m - 400, Y: m, W: 400, H: 300}, geom.Rect{}},
		{graph.DockBL, geom.Rect{X: m, Y: 800 - m - 300, W: 400, H: 300}, geom.Rect{}},
		{graph.DockBR, geom.Rect{X: 1280 - m - 400, Y: 800 - m - 300, W: 400, H: 300}, geom.Rect{}},
		{graph.DockQ1, geom.Rect{X: m, Y: m, W: 400, H: 688}, geom.Rect{X: m, Y: m, W: 292, H: 688}},
		{graph.DockQ3, geom.Rect{X: m + 584, Y: m, W: 400, H: 688}, geom.Rect{X: m + 584, Y: m, W: 292, H: 688}},
		{graph.DockQ4, geom.Rect{X: m + 876, Y: m, W: 400, H: 688}, geom.Rect{X: m + 876, Y: m, W: 292, H: 688}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			b, ok := Place(tt.mode, 400, 300, screen, m)
			require.True(t, ok)
			assert.Equal(t, tt.want, b.Rect)
			assert.Equal(t, tt.clip, b.Clip)
			assert.False(t, b.Focused)
		})
	}

	_, ok := Place(Free, 400, 300, screen, m)
	assert.False(t, ok)
}

func TestPlace_OffsetScreenAndBadMargin(t *testing.T) {
	b, ok := Place(graph.DockTL, 100, 100, geom.Rect{X: 10, Y: 20, W: 800, H: 600}, -1)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 10 + DefaultMargin, Y: 20 + DefaultMargin}, b.Min())
}

func TestFor_FocusOverridesMode(t *testing.T) {
	screen := geom.Rect{W: 1280, H: 800}
	n := textNode("a")
	n.DockState = &graph.DockState{Mode: graph.DockQ2}
	n.IsFocused = true

	b, ok := For(n, screen, DefaultMargin)
	require.True(t, ok)
	assert.True(t, b.Focused)
	assert.Equal(t, screen, b.Rect)

	n.DockState = nil
	_, ok = For(n, screen, DefaultMargin)
	assert.True(t, ok, "free nodes can be focused")

	n.IsFocused = false
	_, ok = For(n, screen, DefaultMargin)
	assert.False(t, ok)
}

func TestLayers(t *testing.T) {
	l := NewLayers(100)
	assert.Equal(t, 101, l.AllocateNextLayer())
	assert.Equal(t, 102, l.Raise("a"))
	assert.Equal(t, 103, l.Raise("b"))
	assert.Equal(t, 104, l.Raise("a"))
	assert.Equal(t, 104, l.Of("a"))
	l.Forget("a")
	assert.Equal(t, 0, l.Of("a"))
}

func TestMachine_Apply(t *testing.T) {
	s := newStore(t, textNode("a"), textNode("b"))
	m := NewMachine(NewLayers(100))

	mode, err := m.Apply(s, "a", DockTo(graph.DockQ1))
	require.NoError(t, err)
	assert.Equal(t, graph.DockQ1, mode)

	mode, err = m.Apply(s, "a", EventCycleNext)
	require.NoError(t, err)
	assert.Equal(t, graph.DockQ2, mode)

	n, _ := s.Node("a")
	assert.Equal(t, graph.DockQ2, n.Mode())

	_, err = m.Apply(s, "b", DockTo(graph.DockLeft))
	require.NoError(t, err)
	assert.Greater(t, m.Layers().Of("b"), m.Layers().Of("a"))

	rev := s.Revision()
	_, err = m.Apply(s, "b", EventCycleVertical)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, rev, s.Revision(), "rejected transitions do not touch the store")

	mode, err = m.Apply(s, "a", EventUndock)
	require.NoError(t, err)
	assert.Equal(t, Free, mode)
	n, _ = s.Node("a")
	assert.Nil(t, n.DockState)
	assert.Equal(t, 0, m.Layers().Of("a"))

	_, err = m.Apply(s, "ghost", EventUndock)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestMachine_NilLogger(t *testing.T) {
	s := newStore(t, textNode("a"))
	m := NewMachine(nil, WithLogger(nil))

	assert.NotPanics(t, func() {
		_, err := m.Apply(s, "a", DockTo(graph.DockLeft))
		require.NoError(t, err)
		_, err = m.Apply(s, "a", EventCycleVertical)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		_, err = m.ToggleFocus(s, "a")
		require.NoError(t, err)
	})
}

func TestMachine_ToggleFocus(t *testing.T) {
	s := newStore(t, textNode("a"), textNode("b"))
	m := NewMachine(nil)
	_, err := m.Apply(s, "a", DockTo(graph.DockTR))
	require.NoError(t, err)

	focused, err := m.ToggleFocus(s, "a")
	require.NoError(t, err)
	assert.True(t, focused)

	focused, err = m.ToggleFocus(s, "b")
	require.NoError(t, err)
	assert.True(t, focused)
	a, _ := s.Node("a")
	assert.False(t, a.IsFocused, "one focused node at a time")
	assert.Equal(t, graph.DockTR, a.Mode(), "dock mode survives focus")

	focused, err = m.ToggleFocus(s, "b")
	require.NoError(t, err)
	assert.False(t, focused)
}

func TestMachine_Panels(t *testing.T) {
	s := newStore(t, textNode("a"), textNode("b"), textNode("free"))
	m := NewMachine(NewLayers(0), WithMargin(10), WithFocusLayer(999))
	_, _ = m.Apply(s, "b", DockTo(graph.DockLeft))
	_, _ = m.Apply(s, "a", DockTo(graph.DockRight))
	_, _ = m.ToggleFocus(s, "free")

	panels := m.Panels(s.Nodes(), geom.Rect{W: 1000, H: 700})
	require.Len(t, panels, 3)
	assert.Equal(t, "b", panels[0].Node.ID)
	assert.Equal(t, "a", panels[1].Node.ID)
	assert.Equal(t, "free", panels[2].Node.ID)
	assert.Equal(t, 999, panels[2].Layer)
	assert.Equal(t, 10.0, panels[0].Box.X)
}
