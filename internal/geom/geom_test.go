package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistancePointToSegment(t *testing.T) {
	a, b := Point{0, 0}, Point{10, 0}

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above middle", Point{5, 3}, 3},
		{"before start", Point{-4, 3}, 5},
		{"past end", Point{13, 4}, 5},
		{"on segment", Point{7, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistancePointToSegment(tt.p, a, b), 1e-9)
		})
	}
}

func TestDistancePointToSegment_Degenerate(t *testing.T) {
	p := Point{3, 4}
	assert.InDelta(t, 5.0, DistancePointToSegment(p, Point{}, Point{}), 1e-9)
}

func TestCubicBezierPoint_Endpoints(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{10, 50}, Point{90, -50}, Point{100, 0}

	assert.Equal(t, p0, CubicBezierPoint(0, p0, p1, p2, p3))
	assert.Equal(t, p3, CubicBezierPoint(1, p0, p1, p2, p3))

	mid := CubicBezierPoint(0.5, p0, p1, p2, p3)
	assert.InDelta(t, 50.0, mid.X, 1e-9)
	assert.InDelta(t, 0.0, mid.Y, 1e-9)
}

func TestWireControls(t *testing.T) {
	c1, c2 := WireControls(Point{0, 10}, Point{200, 90})
	assert.Equal(t, Point{100, 10}, c1)
	assert.Equal(t, Point{100, 90}, c2)

	// Backwards wires still bulge outwards from each endpoint.
	c1, c2 = WireControls(Point{200, 0}, Point{0, 0})
	assert.Equal(t, Point{300, 0}, c1)
	assert.Equal(t, Point{-100, 0}, c2)
}

func TestIsNearConnection(t *testing.T) {
	start, end := Point{0, 0}, Point{200, 100}

	assert.True(t, IsNearConnection(Point{0, 5}, start, end, 0), "near start")
	assert.True(t, IsNearConnection(WirePoint(0.35, start, end), start, end, 0), "on curve between samples")
	assert.False(t, IsNearConnection(Point{100, 300}, start, end, 0), "far below")
	assert.False(t, IsNearConnection(Point{0, 5}, start, end, 2), "outside tight threshold")
}

func TestIsNearConnection_SegmentFallback(t *testing.T) {
	// A point on the straight chord but away from the curve samples.
	start, end := Point{0, 0}, Point{1000, 1000}
	p := Point{250, 250}
	assert.True(t, IsNearConnection(p, start, end, 1))
}

func TestSampleWire(t *testing.T) {
	pts := SampleWire(Point{0, 0}, Point{100, 0}, 4)
	assert.Len(t, pts, 5)
	assert.Equal(t, Point{0, 0}, pts[0])
	assert.Equal(t, Point{100, 0}, pts[4])
}

func TestRect(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, r.Intersects(Rect{X: 10, Y: 10, W: 5, H: 5}), "touching corners")
	assert.False(t, r.Intersects(Rect{X: 11, Y: 0, W: 5, H: 5}))
	assert.Equal(t, Rect{X: -5, Y: 0, W: 15, H: 20}, r.Union(Rect{X: -5, Y: 10, W: 1, H: 10}))
	assert.Equal(t, Rect{X: 1, Y: 2, W: 6, H: 4}, r.Inset(1, 2, 3, 4))
	assert.Equal(t, Rect{X: 2, Y: 1, W: 3, H: 4}, RectFromPoints(Point{5, 1}, Point{2, 5}))
}

func TestSanitize(t *testing.T) {
	p := Point{X: math.NaN(), Y: math.Inf(1)}.Sanitize()
	assert.Equal(t, Point{}, p)
	assert.Equal(t, 3.0, OrDefault(math.NaN(), 3))
	assert.Equal(t, 1.0, Clamp(math.NaN(), 1, 5))
	assert.Equal(t, 5.0, Clamp(9, 1, 5))
}
