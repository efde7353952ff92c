// Package geom provides the plain geometry and color value types shared by
// the overlay managers. Rectangles follow the PDF convention of lower-left
// and upper-right corners; colors are RGB components in the [0,1] range.
package geom

import (
	"encoding/json"
	"fmt"
)

// Point is a 2-D point on a page.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as a 2-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a 2-element array into the point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid point: %w", err)
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// Rect is an axis-aligned rectangle given by two corners.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewRect creates a rectangle from its corner coordinates.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the rectangle width.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the rectangle height.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Canon returns the rectangle with corners swapped as needed so that
// X0 <= X1 and Y0 <= Y1.
func (r Rect) Canon() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// TopLeft returns the (X0, Y0) corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.X0, Y: r.Y0}
}

// MarshalJSON encodes the rectangle as a 4-element [x0,y0,x1,y1] array.
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.X0, r.Y0, r.X1, r.Y1})
}

// UnmarshalJSON decodes a 4-element array into the rectangle.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var arr [4]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid rect: %w", err)
	}
	r.X0, r.Y0, r.X1, r.Y1 = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// Color is an RGB color with components in [0,1].
type Color struct {
	R float64
	G float64
	B float64
}

// RGB creates a color from its components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// MarshalJSON encodes the color as a 3-element [r,g,b] array.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.R, c.G, c.B})
}

// UnmarshalJSON decodes a 3-element array into the color.
func (c *Color) UnmarshalJSON(data []byte) error {
	var arr [3]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid color: %w", err)
	}
	c.R, c.G, c.B = arr[0], arr[1], arr[2]
	return nil
}

// Common colors used as factory defaults.
var (
	Black  = Color{0, 0, 0}
	Yellow = Color{1, 1, 0}
	Red    = Color{1, 0, 0}
	Blue   = Color{0, 0, 1}
	White  = Color{1, 1, 1}
)
