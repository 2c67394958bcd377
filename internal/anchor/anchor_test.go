package anchor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weft/internal/geom"
	"weft/internal/graph"
)

func node(t graph.NodeType, x, y, w, h float64, value string) graph.Node {
	return graph.Node{ID: string(t), Type: t, Position: geom.Point{X: x, Y: y}, Width: w, Height: h, Value: value}
}

func resolve(t *testing.T, n graph.Node, id string, isInput bool) geom.Point {
	t.Helper()
	p, ok := Resolve(n, id, isInput)
	require.True(t, ok, "handle %q exposed", id)
	return p
}

func TestResolve_TextInputDefaultOutput(t *testing.T) {
	a := node(graph.TypeTextInput, 0, 0, 460, 300, "")

	assert.Equal(t, geom.Point{X: 460, Y: 150}, resolve(t, a, "", false))
}

func TestResolve_RerouteDirection(t *testing.T) {
	lr := node(graph.TypeRerouteDot, 500, 0, 60, 40, `{"direction":"LR"}`)
	rl := node(graph.TypeRerouteDot, 500, 0, 60, 40, `{"direction":"RL"}`)

	assert.Equal(t, geom.Point{X: 560, Y: 20}, resolve(t, lr, "", false))
	assert.Equal(t, geom.Point{X: 500, Y: 20}, resolve(t, lr, "", true))

	assert.Equal(t, resolve(t, lr, "", false), resolve(t, rl, "", true))
	assert.Equal(t, resolve(t, lr, "", true), resolve(t, rl, "", false))

	noValue := node(graph.TypeRerouteDot, 500, 0, 60, 40, "")
	assert.Equal(t, resolve(t, lr, "", false), resolve(t, noValue, "", false), "LR is the default")
}

func TestResolve_DockedUsesProxyBox(t *testing.T) {
	n := node(graph.TypeImageEditor, 100, 100, 520, 720, "")
	n.DockState = &graph.DockState{Mode: graph.DockLeft}

	assert.Equal(t, geom.Point{X: 260, Y: 124}, resolve(t, n, "image", false))
	assert.Equal(t, geom.Point{X: 100, Y: 116}, resolve(t, n, "image", true))
	assert.Equal(t, geom.Point{X: 100, Y: 132}, resolve(t, n, "text", true))
}

func TestResolve_CollapsedSpreadsOverCollapsedHeight(t *testing.T) {
	n := node(graph.TypeCharacterCard, 0, 0, 400, 600, "")
	n.IsCollapsed = true
	n.CollapsedHandles = true

	ch := graph.TypeCharacterCard.Info().CollapsedHeight
	assert.InDelta(t, ch/3, resolve(t, n, "all_data", false).Y, 1e-9)
	assert.InDelta(t, 2*ch/3, resolve(t, n, "primary_data", false).Y, 1e-9)
}

func TestResolve_ImageEditor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]float64
		gone  []string
	}{
		{
			name:  "default pane",
			value: "",
			want: map[string]float64{
				"image": 40 + 165,
				"text":  40 + 330 + 16 + (720-386)/2.0,
			},
			gone: []string{"image-a", "image-b"},
		},
		{
			name:  "combination splits the image port",
			value: `{"topPaneHeight":400,"isSequenceMode":true,"isSequentialCombinationMode":true}`,
			want: map[string]float64{
				"image-a": 40 + 100,
				"image-b": 40 + 300,
				"text":    40 + 400 + 16 + (720-456)/2.0,
			},
			gone: []string{"image"},
		},
		{
			name:  "editing with prompts keeps only B",
			value: `{"isSequenceMode":true,"isSequentialCombinationMode":true,"isSequentialEditingWithPrompts":true}`,
			want:  map[string]float64{"image-b": 40 + 165},
			gone:  []string{"image", "image-a"},
		},
		{
			name:  "sub-modes ignored outside sequence mode",
			value: `{"isSequentialCombinationMode":true}`,
			want:  map[string]float64{"image": 40 + 165},
			gone:  []string{"image-a"},
		},
		{
			name:  "string pane height is coerced",
			value: `{"topPaneHeight":"200"}`,
			want:  map[string]float64{"image": 40 + 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node(graph.TypeImageEditor, 0, 0, 520, 720, tt.value)
			for id, y := range tt.want {
				p := resolve(t, n, id, true)
				assert.Equal(t, 0.0, p.X, id)
				assert.InDelta(t, y, p.Y, 1e-9, id)
			}
			for _, id := range tt.gone {
				p, ok := Resolve(n, id, true)
				assert.False(t, ok, id)
				assert.Equal(t, geom.Point{X: 0, Y: 360}, p, "falls back to the default port")
			}
		})
	}
}

func TestResolve_SequenceGenerator(t *testing.T) {
	n := node(graph.TypeImageSequenceGenerator, 0, 0, 500, 800, `{"conceptsMode":"collapsed"}`)
	assert.InDelta(t, 40+18.5, resolve(t, n, "concepts", true).Y, 1e-9)
	assert.InDelta(t, 77+(800-77)/2.0, resolve(t, n, "prompt", true).Y, 1e-9)

	n.Value = `{"conceptsMode":"normal"}`
	assert.InDelta(t, 40+195, resolve(t, n, "concepts", true).Y, 1e-9)

	n.Value = `{"conceptsMode":"expanded"}`
	assert.InDelta(t, 40+380, resolve(t, n, "concepts", true).Y, 1e-9)
	_, ok := Resolve(n, "prompt", true)
	assert.False(t, ok, "prompt port is covered by expanded concepts")
}

func TestResolve_VideoEditorIgnoresCollapse(t *testing.T) {
	n := node(graph.TypeVideoEditor, 0, 0, 600, 500, "")
	expanded := Handles(n, true)
	n.IsCollapsed = true
	collapsed := Handles(n, true)

	assert.Equal(t, expanded, collapsed)
	require.Len(t, expanded, 4)
	for i, h := range expanded {
		assert.Equal(t, 60+50*float64(i), h.Local.Y, h.ID)
	}
}

func TestResolve_CharacterCard(t *testing.T) {
	n := node(graph.TypeCharacterCard, 0, 0, 400, 760, "")
	hs := Handles(n, false)
	require.Len(t, hs, 7)
	step := (760 - 40 - 20) / 8.0
	for i, h := range hs {
		assert.InDelta(t, 40+float64(i+1)*step, h.Local.Y, 1e-9, h.ID)
	}

	n.CollapsedHandles = true
	hs = Handles(n, false)
	require.Len(t, hs, 2)
	assert.InDelta(t, 40+700/3.0, hs[0].Local.Y, 1e-9)
	_, ok := Resolve(n, "clothing", false)
	assert.False(t, ok)
}

func TestResolve_PromptAnalyzerGrowsWithCharacters(t *testing.T) {
	n := node(graph.TypePromptAnalyzer, 0, 0, 400, 540, `{"characters":["a"],"detailedCharacters":[{},{},{}]}`)
	hs := Handles(n, false)
	require.Len(t, hs, 7)
	assert.Equal(t, "character-2", hs[6].ID)
	assert.InDelta(t, 40+500/8.0, hs[0].Local.Y, 1e-9)

	n.Value = "not json"
	assert.Len(t, Handles(n, false), 4)
}

func TestResolve_ImageInputAsymmetric(t *testing.T) {
	for _, typ := range []graph.NodeType{graph.TypeImageInput, graph.TypeImageAnalyzer} {
		n := node(typ, 10, 0, 400, 440, "")
		hs := Handles(n, false)
		require.Len(t, hs, 2, typ)
		assert.Equal(t, geom.Point{X: 400, Y: 140}, hs[0].Local, typ)
		assert.Equal(t, geom.Point{X: 400, Y: 410}, hs[1].Local, typ)
	}
	assert.Empty(t, Handles(node(graph.TypeImageInput, 0, 0, 400, 440, ""), true))
}

func TestResolve_MalformedValue(t *testing.T) {
	for _, v := range []string{"", "{", "null", "[]", `"str"`, `{"topPaneHeight":"tall"}`, `{"topPaneHeight":-4}`} {
		n := node(graph.TypeImageEditor, 0, 0, 520, 720, v)
		assert.NotPanics(t, func() {
			assert.InDelta(t, 40+165, resolve(t, n, "image", true).Y, 1e-9, v)
		})
	}
}

func TestResolve_NonFiniteGeometry(t *testing.T) {
	n := node(graph.TypeTextInput, math.NaN(), math.Inf(1), math.NaN(), -1, "")
	p := resolve(t, n, "", false)
	assert.True(t, p.Finite())
	assert.Equal(t, geom.Point{X: 460, Y: 150}, p)
}

func TestResolve_UnknownHandle(t *testing.T) {
	n := node(graph.TypeVideoEditor, 0, 0, 600, 500, "")
	p, ok := Resolve(n, "smell", true)
	assert.False(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 250}, p)

	p, ok = Resolve(n, "", false)
	assert.True(t, ok, "unnamed wire lands on the single output")
	assert.Equal(t, geom.Point{X: 600, Y: 250}, p)
}

func TestResolve_DoesNotMutate(t *testing.T) {
	n := node(graph.TypeImageEditor, 1, 2, 520, 720, `{"topPaneHeight":200}`)
	before := n
	_, _ = Resolve(n, "image", true)
	_ = Handles(n, true)
	assert.Equal(t, before, n)
}

func TestResolver_CachesLayouts(t *testing.T) {
	r := NewResolver(2)
	a := node(graph.TypeImageEditor, 0, 0, 520, 720, `{"topPaneHeight":100}`)
	b := a
	b.Value = `{"topPaneHeight":200}`
	text := node(graph.TypeTextInput, 0, 0, 460, 300, "")

	pa, _ := r.Resolve(a, "image", true)
	pb, _ := r.Resolve(b, "image", true)
	_, _ = r.Resolve(text, "", false)

	assert.Equal(t, 90.0, pa.Y)
	assert.Equal(t, 140.0, pb.Y)
	assert.Equal(t, 2, r.cache.Len(), "types without payload layout are not cached")

	c := a
	c.Value = `{"topPaneHeight":300}`
	pc, _ := r.Resolve(c, "image", true)
	assert.Equal(t, 190.0, pc.Y)
	assert.Equal(t, 1, r.cache.Len(), "cache resets when full")

	p, ok := Resolve(a, "image", true)
	assert.True(t, ok)
	assert.Equal(t, pa, p)
}

func TestDecode(t *testing.T) {
	assert.Equal(t, DefaultLayout{}, Decode(graph.TypeNote, `{"direction":"RL"}`))
	assert.Equal(t, RerouteLayout{Direction: "RL"}, Decode(graph.TypeRerouteDot, `{"direction":"RL"}`))
	assert.Equal(t, SequenceGeneratorLayout{ConceptsMode: ConceptsNormal}, Decode(graph.TypeImageSequenceGenerator, `{"conceptsMode":"huge"}`))

	l, ok := Decode(graph.TypeImageEditor, `{"isSequenceMode":1,"isSequentialCombinationMode":"true"}`).(ImageEditorLayout)
	require.True(t, ok)
	assert.True(t, l.Combination())
	assert.Equal(t, DefaultTopPaneHeight, l.TopPaneHeight)
}
