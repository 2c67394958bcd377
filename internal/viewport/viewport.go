// Package viewport maps between world coordinates and the screen.
package viewport

import (
	"weft/internal/geom"
	"weft/internal/graph"
)

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 10.0
)

// Transform is a uniform scale followed by a translation, both in screen
// units relative to the viewport's top-left corner.
type Transform struct {
	Scale     float64
	Translate geom.Point
}

// Identity is the transform with scale 1 and no translation.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Sanitize replaces a non-finite or non-positive scale with 1 and non-finite
// translation components with 0.
func (t Transform) Sanitize() Transform {
	if !geom.IsFinite(t.Scale) || t.Scale <= 0 {
		t.Scale = 1
	}
	t.Translate = t.Translate.Sanitize()
	return t
}

// Apply maps a world point to viewport-local screen space.
func (t Transform) Apply(w geom.Point) geom.Point {
	t = t.Sanitize()
	return w.Scale(t.Scale).Add(t.Translate)
}

// Invert maps a viewport-local screen point to world space.
func (t Transform) Invert(s geom.Point) geom.Point {
	t = t.Sanitize()
	return s.Sub(t.Translate).Scale(1 / t.Scale)
}

// Viewport is the pan and zoom state of one canvas view. Rect is where the
// canvas sits on screen; screen points passed to its methods are absolute.
type Viewport struct {
	Transform
	Rect geom.Rect

	minScale float64
	maxScale float64
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithScaleLimits bounds the zoom level. Invalid limits are ignored.
func WithScaleLimits(minScale, maxScale float64) Option {
	return func(v *Viewport) {
		if !geom.IsFinite(minScale) || !geom.IsFinite(maxScale) || minScale <= 0 || maxScale < minScale {
			return
		}
		v.minScale, v.maxScale = minScale, maxScale
	}
}

// New returns a viewport over rect with the identity transform.
func New(rect geom.Rect, opts ...Option) *Viewport {
	v := &Viewport{
		Transform: Identity(),
		Rect:      rect,
		minScale:  DefaultMinScale,
		maxScale:  DefaultMaxScale,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ScaleLimits returns the zoom bounds.
func (v *Viewport) ScaleLimits() (float64, float64) {
	return v.minScale, v.maxScale
}

// SetRect moves or resizes the canvas on screen.
func (v *Viewport) SetRect(r geom.Rect) {
	v.Rect = r
}

func (v *Viewport) origin() geom.Point {
	return v.Rect.Min().Sanitize()
}

// ScreenToWorld converts an absolute screen point to world coordinates.
func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point {
	return v.Invert(p.Sanitize().Sub(v.origin()))
}

// WorldToScreen converts a world point to absolute screen coordinates.
func (v *Viewport) WorldToScreen(p geom.Point) geom.Point {
	return v.Apply(p.Sanitize()).Add(v.origin())
}

// ZoomAtPoint changes the scale while keeping the world point under the
// screen point p fixed. The requested scale is clamped first and the
// applied scale is returned. A non-finite request leaves the view unchanged.
func (v *Viewport) ZoomAtPoint(p geom.Point, scale float64) float64 {
	v.Transform = v.Sanitize()
	if !geom.IsFinite(scale) {
		return v.Scale
	}
	p = p.Sanitize()
	anchor := v.ScreenToWorld(p)
	v.Scale = geom.Clamp(scale, v.minScale, v.maxScale)
	v.Translate = p.Sub(v.origin()).Sub(anchor.Scale(v.Scale))
	return v.Scale
}

// ZoomBy multiplies the scale by factor around p.
func (v *Viewport) ZoomBy(p geom.Point, factor float64) float64 {
	return v.ZoomAtPoint(p, v.Sanitize().Scale*factor)
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(d geom.Point) {
	v.Transform = v.Sanitize()
	v.Translate = v.Translate.Add(d.Sanitize())
}

// Reset restores the identity transform.
func (v *Viewport) Reset() {
	v.Transform = Identity()
}

// CenterOn pans so that world point w sits at the centre of the canvas.
func (v *Viewport) CenterOn(w geom.Point) {
	v.Transform = v.Sanitize()
	c := geom.Point{X: v.Rect.W / 2, Y: v.Rect.H / 2}.Sanitize()
	v.Translate = c.Sub(w.Sanitize().Scale(v.Scale))
}

// WorldRect is the part of the world currently on screen.
func (v *Viewport) WorldRect() geom.Rect {
	a := v.Invert(geom.Point{})
	b := v.Invert(geom.Point{X: v.Rect.W, Y: v.Rect.H}.Sanitize())
	return geom.RectFromPoints(a, b)
}

// State returns the persisted form of the transform.
func (v *Viewport) State() graph.ViewState {
	t := v.Sanitize()
	return graph.ViewState{Scale: t.Scale, Translate: t.Translate}
}

// Restore applies a persisted transform, clamping its scale.
func (v *Viewport) Restore(s *graph.ViewState) {
	if s == nil {
		v.Reset()
		return
	}
	t := Transform{Scale: s.Scale, Translate: s.Translate}.Sanitize()
	t.Scale = geom.Clamp(t.Scale, v.minScale, v.maxScale)
	v.Transform = t
}
