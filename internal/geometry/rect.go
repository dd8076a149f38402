package geometry

import "math"

// Axis describes the orientation of the divider between two regions.
// Vertical is a vertical divider (regions side by side, width is divided);
// Horizontal is a horizontal divider (regions stacked, height is divided).
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Opposite returns the other axis.
func (a Axis) Opposite() Axis {
	if a == Vertical {
		return Horizontal
	}
	return Vertical
}

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Rect is a screen-space rectangle. Width and height are never negative.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Gaps holds the inner (between siblings) and outer (workspace boundary)
// gap sizes in pixels.
type Gaps struct {
	Inner int
	Outer int
}

// scaleEpsilon is the tolerance below which Scale is treated as a no-op,
// so cosmetic floating-point drift in DPI factors cannot trigger relayout.
const scaleEpsilon = 0.01

// Split partitions the rectangle into two adjacent rectangles along axis.
// The first piece gets the truncation of ratio*dimension and the remainder
// goes to the second, so the two always sum exactly to the original.
func (r Rect) Split(axis Axis, ratio float64) (Rect, Rect) {
	if axis == Vertical {
		first := int(float64(r.Width) * ratio)
		left := Rect{X: r.X, Y: r.Y, Width: first, Height: r.Height}
		right := Rect{X: r.X + first, Y: r.Y, Width: r.Width - first, Height: r.Height}
		return left, right
	}
	first := int(float64(r.Height) * ratio)
	top := Rect{X: r.X, Y: r.Y, Width: r.Width, Height: first}
	bottom := Rect{X: r.X, Y: r.Y + first, Width: r.Width, Height: r.Height - first}
	return top, bottom
}

// Shrink moves each edge inward by the given amount and clamps the
// resulting dimensions at zero.
func (r Rect) Shrink(left, top, right, bottom int) Rect {
	out := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Scale multiplies all four fields by factor and rounds. Factors within
// scaleEpsilon of 1.0 leave the rectangle unchanged.
func (r Rect) Scale(factor float64) Rect {
	if math.Abs(factor-1.0) <= scaleEpsilon {
		return r
	}
	return Rect{
		X:      int(math.Round(float64(r.X) * factor)),
		Y:      int(math.Round(float64(r.Y) * factor)),
		Width:  int(math.Round(float64(r.Width) * factor)),
		Height: int(math.Round(float64(r.Height) * factor)),
	}
}

// ContainsPoint reports whether the point lies inside the rectangle.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// CenterX and CenterY return the rectangle's center coordinates.
func (r Rect) CenterX() int { return r.X + r.Width/2 }
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ClampRatio clamps a split ratio into the valid [0.1, 0.9] range.
func ClampRatio(ratio float64) float64 {
	if ratio < 0.1 {
		return 0.1
	}
	if ratio > 0.9 {
		return 0.9
	}
	return ratio
}
