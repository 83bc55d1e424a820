// Package geometry holds the plane primitives shared by the edit compositor
// and the visibility classifier. Coordinates grow right and down from a
// top-left origin; rectangles are half-open: [X1, X2) x [Y1, Y2).
package geometry

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Quad is a general quadrilateral, corners in drawing order.
type Quad [4]Point

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func RectFromSize(x, y, w, h float64) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

func (r Rect) Width() float64  { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Area is zero for degenerate or inverted rectangles.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

func (r Rect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// Canon swaps corners so that X1<=X2 and Y1<=Y2.
func (r Rect) Canon() Rect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// Intersect returns the overlapping region; the result is Empty when the
// rectangles are disjoint.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		X1: math.Max(r.X1, s.X1),
		Y1: math.Max(r.Y1, s.Y1),
		X2: math.Min(r.X2, s.X2),
		Y2: math.Min(r.Y2, s.Y2),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X < r.X2 && p.Y >= r.Y1 && p.Y < r.Y2
}

func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{X1: r.X1 * sx, Y1: r.Y1 * sy, X2: r.X2 * sx, Y2: r.Y2 * sy}
}

// Clamp moves p to the nearest point of the closed rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.X1), r.X2),
		Y: math.Min(math.Max(p.Y, r.Y1), r.Y2),
	}
}

func (q Quad) Bounds() Rect {
	b := Rect{X1: q[0].X, Y1: q[0].Y, X2: q[0].X, Y2: q[0].Y}
	for _, p := range q[1:] {
		b.X1 = math.Min(b.X1, p.X)
		b.Y1 = math.Min(b.Y1, p.Y)
		b.X2 = math.Max(b.X2, p.X)
		b.Y2 = math.Max(b.Y2, p.Y)
	}
	return b
}

func (q Quad) Scale(sx, sy float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) Swap() Dimensions {
	return Dimensions{Width: d.Height, Height: d.Width}
}

// Rect is the full canvas of d.
func (d Dimensions) Rect() Rect {
	return Rect{X2: float64(d.Width), Y2: float64(d.Height)}
}

// ScaleTo returns the factors that take coordinates in d to coordinates in
// target. Invalid source dimensions yield the identity scale.
func (d Dimensions) ScaleTo(target Dimensions) (sx, sy float64) {
	if !d.Valid() || !target.Valid() {
		return 1, 1
	}
	return float64(target.Width) / float64(d.Width), float64(target.Height) / float64(d.Height)
}
