package sim

import "math"

// Vec is a point or displacement in logical viewport units.
type Vec struct {
	X, Y float64
}

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec) float64 { return a.Sub(b).Len() }

// Viewport is the current drawable extent. Scale is the device pixel ratio
// applied to the backing surface; simulation bounds use Width and Height only.
type Viewport struct {
	Width, Height float64
	Scale         float64
}

// Center returns the middle of the viewport.
func (vp Viewport) Center() Vec {
	return Vec{vp.Width / 2, vp.Height / 2}
}

// SurfaceSize returns the device-scaled backing size in whole pixels.
func (vp Viewport) SurfaceSize() (int, int) {
	s := vp.Scale
	if s <= 0 {
		s = 1
	}
	return int(math.Ceil(vp.Width * s)), int(math.Ceil(vp.Height * s))
}
