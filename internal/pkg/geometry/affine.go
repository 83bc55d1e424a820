package geometry

// Affine is a 2D affine transform in row-major form:
//
//	[ a b c ]
//	[ d e f ]
//
// where (x', y') = (a*x + b*y + c, d*x + e*y + f).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Affine {
	return Affine{A: 1, E: 1}
}

func Translate(dx, dy float64) Affine {
	return Affine{A: 1, C: dx, E: 1, F: dy}
}

func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Then returns the transform that applies t first and next second.
func (t Affine) Then(next Affine) Affine {
	return Affine{
		A: next.A*t.A + next.B*t.D,
		B: next.A*t.B + next.B*t.E,
		C: next.A*t.C + next.B*t.F + next.C,
		D: next.D*t.A + next.E*t.D,
		E: next.D*t.B + next.E*t.E,
		F: next.D*t.C + next.E*t.F + next.F,
	}
}

// ApplyRect maps both corners and re-canonicalises. Only exact for
// transforms that keep axis alignment (quarter turns, flips, translations).
func (t Affine) ApplyRect(r Rect) Rect {
	p1 := t.Apply(Point{X: r.X1, Y: r.Y1})
	p2 := t.Apply(Point{X: r.X2, Y: r.Y2})
	return Rect{X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y}.Canon()
}

func (t Affine) ApplyQuad(q Quad) Quad {
	var out Quad
	for i, p := range q {
		out[i] = t.Apply(p)
	}
	return out
}
