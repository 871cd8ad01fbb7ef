package layout

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Unit is a layout length in 26.6 fixed point pixels.
type Unit = fixed.Int26_6

// Rect is a layout rectangle. Min is inclusive and Max exclusive.
type Rect = fixed.Rectangle26_6

// Px converts pixels to a layout unit, rounding to the nearest 1/64.
func Px(v float64) Unit {
	return Unit(math.Round(v * 64))
}

// ToPx converts a layout unit to pixels.
func ToPx(u Unit) float64 {
	return float64(u) / 64
}

// RectXYWH builds a rectangle from an origin and size.
func RectXYWH(x, y, w, h Unit) Rect {
	return Rect{
		Min: fixed.Point26_6{X: x, Y: y},
		Max: fixed.Point26_6{X: x + w, Y: y + h},
	}
}

// RectPx builds a rectangle from pixel coordinates.
func RectPx(x, y, w, h float64) Rect {
	return RectXYWH(Px(x), Px(y), Px(w), Px(h))
}

// Width returns the horizontal extent of r.
func Width(r Rect) Unit { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func Height(r Rect) Unit { return r.Max.Y - r.Min.Y }

func rectBounds(r Rect) (min, max [2]float64) {
	return [2]float64{ToPx(r.Min.X), ToPx(r.Min.Y)}, [2]float64{ToPx(r.Max.X), ToPx(r.Max.Y)}
}

// unionRect is Rect.Union that treats a zero rectangle as empty even when
// it has a position.
func unionRect(a, b Rect, aSet bool) Rect {
	if !aSet {
		return b
	}
	out := a
	if b.Min.X < out.Min.X {
		out.Min.X = b.Min.X
	}
	if b.Min.Y < out.Min.Y {
		out.Min.Y = b.Min.Y
	}
	if b.Max.X > out.Max.X {
		out.Max.X = b.Max.X
	}
	if b.Max.Y > out.Max.Y {
		out.Max.Y = b.Max.Y
	}
	return out
}

// Point is a layout position.
type Point = fixed.Point26_6

func fixedPoint(x, y Unit) Point { return Point{X: x, Y: y} }
