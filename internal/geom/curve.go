package geom

import "math"

const (
	// DefaultHitThreshold is the distance within which a point counts as
	// touching a wire.
	DefaultHitThreshold = 20.0

	// wireSamples is the number of points walked along a wire curve when
	// hit testing (t = 0, 0.1, ... 1.0).
	wireSamples = 11
)

// DistancePointToSegment returns the distance from p to the closest point of
// the segment ab. A degenerate segment behaves like a point.
func DistancePointToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// CubicBezierPoint evaluates the cubic bezier p0..p3 at t in [0,1].
func CubicBezierPoint(t float64, p0, p1, p2, p3 Point) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// WireControls returns the two control points of the curve drawn between an
// output anchor and an input anchor. Both are pulled horizontally by half of
// the x distance between the endpoints.
func WireControls(start, end Point) (Point, Point) {
	off := math.Abs(end.X-start.X) / 2
	return Point{X: start.X + off, Y: start.Y}, Point{X: end.X - off, Y: end.Y}
}

// WirePoint evaluates the wire curve from start to end at t.
func WirePoint(t float64, start, end Point) Point {
	c1, c2 := WireControls(start, end)
	return CubicBezierPoint(t, start, c1, c2, end)
}

// SampleWire returns n+1 evenly parameterised points along the wire curve.
func SampleWire(start, end Point, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, WirePoint(float64(i)/float64(n), start, end))
	}
	return pts
}

// IsNearConnection reports whether point lies within threshold of the wire
// drawn from start to end. The curve is approximated by 11 samples; when none
// of them is close enough the straight segment is used as a fallback. A
// non-positive threshold means DefaultHitThreshold.
func IsNearConnection(point, start, end Point, threshold float64) bool {
	if threshold <= 0 || !IsFinite(threshold) {
		threshold = DefaultHitThreshold
	}
	c1, c2 := WireControls(start, end)
	for i := 0; i < wireSamples; i++ {
		t := float64(i) / float64(wireSamples-1)
		if point.Dist(CubicBezierPoint(t, start, c1, c2, end)) <= threshold {
			return true
		}
	}
	return DistancePointToSegment(point, start, end) <= threshold
}
