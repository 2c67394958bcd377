package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weft/internal/geom"
	"weft/internal/graph"
)

func assertNear(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
}

func TestViewport_RoundTrip(t *testing.T) {
	v := New(geom.Rect{X: 120, Y: 30, W: 800, H: 600})
	v.Scale = 1.7
	v.Translate = geom.Point{X: -40, Y: 95}

	for _, w := range []geom.Point{{}, {X: 1, Y: 1}, {X: -5000, Y: 123.4}, {X: 1e6, Y: -1e6}} {
		assertNear(t, w, v.ScreenToWorld(v.WorldToScreen(w)))
	}
}

func TestViewport_OriginIsRectCorner(t *testing.T) {
	v := New(geom.Rect{X: 100, Y: 50, W: 800, H: 600})

	assert.Equal(t, geom.Point{}, v.ScreenToWorld(geom.Point{X: 100, Y: 50}))
	assert.Equal(t, geom.Point{X: 110, Y: 60}, v.WorldToScreen(geom.Point{X: 10, Y: 10}))
}

func TestViewport_ZoomAtPointKeepsAnchor(t *testing.T) {
	v := New(geom.Rect{X: 20, Y: 10, W: 1024, H: 768})
	v.Translate = geom.Point{X: 33, Y: -12}

	points := []geom.Point{{X: 20, Y: 10}, {X: 500, Y: 400}, {X: 1000, Y: 700}}
	scales := []float64{2, 0.5, 9.9, 25, 0.01, 1, 3.3}
	for _, p := range points {
		for _, s := range scales {
			before := v.ScreenToWorld(p)
			v.ZoomAtPoint(p, s)
			assertNear(t, before, v.ScreenToWorld(p))
		}
	}
}

func TestViewport_ZoomClampsBeforeSolving(t *testing.T) {
	v := New(geom.Rect{W: 800, H: 600})
	p := geom.Point{X: 400, Y: 300}
	before := v.ScreenToWorld(p)

	assert.Equal(t, DefaultMaxScale, v.ZoomAtPoint(p, 1000))
	assertNear(t, before, v.ScreenToWorld(p))

	assert.Equal(t, DefaultMinScale, v.ZoomAtPoint(p, 0))
	assertNear(t, before, v.ScreenToWorld(p))

	assert.Equal(t, DefaultMinScale, v.ZoomAtPoint(p, math.NaN()), "NaN leaves the view unchanged")
}

func TestViewport_ZoomBy(t *testing.T) {
	v := New(geom.Rect{W: 800, H: 600}, WithScaleLimits(0.5, 2))
	p := geom.Point{X: 200, Y: 100}

	v.ZoomBy(p, 1.5)
	v.ZoomBy(p, 1.5)
	assert.Equal(t, 2.0, v.Scale)

	lo, hi := v.ScaleLimits()
	assert.Equal(t, 0.5, lo)
	assert.Equal(t, 2.0, hi)
}

func TestWithScaleLimits_IgnoresInvalid(t *testing.T) {
	v := New(geom.Rect{}, WithScaleLimits(5, 1))
	lo, hi := v.ScaleLimits()
	assert.Equal(t, DefaultMinScale, lo)
	assert.Equal(t, DefaultMaxScale, hi)
}

func TestViewport_PanResetCenter(t *testing.T) {
	v := New(geom.Rect{W: 800, H: 600})
	v.Pan(geom.Point{X: 10, Y: -20})
	assert.Equal(t, geom.Point{X: 10, Y: -20}, v.Translate)

	v.Pan(geom.Point{X: math.NaN(), Y: 5})
	assert.Equal(t, geom.Point{X: 10, Y: -15}, v.Translate)

	v.ZoomAtPoint(geom.Point{}, 2)
	v.CenterOn(geom.Point{X: 1000, Y: 1000})
	assertNear(t, geom.Point{X: 400, Y: 300}, v.WorldToScreen(geom.Point{X: 1000, Y: 1000}))

	v.Reset()
	assert.Equal(t, Identity(), v.Transform)
}

func TestViewport_CorruptTransformDoesNotPoison(t *testing.T) {
	v := New(geom.Rect{W: 800, H: 600})
	v.Scale = math.NaN()
	v.Translate = geom.Point{X: math.Inf(1), Y: 4}

	p := v.ScreenToWorld(geom.Point{X: 10, Y: 10})
	assert.True(t, p.Finite())
	assert.Equal(t, geom.Point{X: 10, Y: 6}, p)
}

func TestViewport_WorldRect(t *testing.T) {
	v := New(geom.Rect{X: 50, Y: 50, W: 800, H: 600})
	v.Scale = 2
	v.Translate = geom.Point{X: -100, Y: 0}

	assert.Equal(t, geom.Rect{X: 50, Y: 0, W: 400, H: 300}, v.WorldRect())
}

func TestViewport_StateRestore(t *testing.T) {
	v := New(geom.Rect{W: 800, H: 600})
	v.ZoomAtPoint(geom.Point{X: 100, Y: 100}, 3)
	s := v.State()

	w := New(geom.Rect{W: 800, H: 600})
	w.Restore(&s)
	assert.Equal(t, v.Transform, w.Transform)

	w.Restore(&graph.ViewState{Scale: 400, Translate: geom.Point{X: math.NaN()}})
	assert.Equal(t, DefaultMaxScale, w.Scale)
	assert.Equal(t, geom.Point{}, w.Translate)

	w.Restore(nil)
	require.Equal(t, Identity(), w.Transform)
}
