package edits

import (
	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

// Transform maps original-image coordinates into the edited image.
//
// Two affines are composed side by side: pixel maps integer pixel indices
// (x -> W-1-x under a flip), continuous maps edges (x -> W-x) and is what
// rectangles and polygons go through.
type Transform struct {
	Original geometry.Dimensions
	Final    geometry.Dimensions

	pixel geometry.Affine
	clips []clip
	steps []step
}

// clip is a crop window expressed in the space reached by pixel.
type clip struct {
	pixel  geometry.Affine
	bounds geometry.Rect
}

type step struct {
	affine geometry.Affine
	clip   *geometry.Rect
}

// Compose walks ops in ascending index order starting from the original
// dimensions.
func Compose(original geometry.Dimensions, ops []entity.EditOperation) (*Transform, error) {
	if !original.Valid() {
		return nil, entity.NewValidationError(entity.DimensionsUnavailable, "asset dimensions are not available for editing")
	}

	t := &Transform{
		Original: original,
		Final:    original,
		pixel:    geometry.Identity(),
	}

	for _, op := range entity.SortByIndex(ops) {
		if err := t.apply(op); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Dimensions runs the compositor only for its output size.
func Dimensions(original geometry.Dimensions, ops []entity.EditOperation) (geometry.Dimensions, error) {
	t, err := Compose(original, ops)
	if err != nil {
		return geometry.Dimensions{}, err
	}
	return t.Final, nil
}

func (t *Transform) apply(op entity.EditOperation) error {
	w, h := float64(t.Final.Width), float64(t.Final.Height)

	switch p := op.Parameters.(type) {
	case entity.CropParameters:
		// a crop placed after a quarter turn can reach past the canvas;
		// only the part on the canvas survives, as it does for the pixels
		bounds := p.Rect().Intersect(t.Final.Rect())
		if bounds.Empty() {
			return entity.NewValidationError(entity.CropOutOfBounds,
				"crop at index %d lies outside the %dx%d canvas", op.Index, t.Final.Width, t.Final.Height)
		}

		t.clips = append(t.clips, clip{pixel: t.pixel, bounds: bounds})
		move := geometry.Translate(-bounds.X1, -bounds.Y1)
		t.push(move, move, &bounds)
		t.Final = geometry.Dimensions{Width: int(bounds.Width()), Height: int(bounds.Height())}

	case entity.RotateParameters:
		switch p.Angle {
		case 0:
		case 90:
			t.push(
				geometry.Affine{B: -1, C: h - 1, D: 1},
				geometry.Affine{B: -1, C: h, D: 1},
				nil,
			)
			t.Final = t.Final.Swap()
		case 180:
			t.push(
				geometry.Affine{A: -1, C: w - 1, E: -1, F: h - 1},
				geometry.Affine{A: -1, C: w, E: -1, F: h},
				nil,
			)
		case 270:
			t.push(
				geometry.Affine{B: 1, D: -1, F: w - 1},
				geometry.Affine{B: 1, D: -1, F: w},
				nil,
			)
			t.Final = t.Final.Swap()
		default:
			return entity.NewInvariantError("rotation by %d degrees reached the compositor", p.Angle)
		}

	case entity.MirrorParameters:
		switch p.Axis {
		case entity.AxisHorizontal:
			t.push(
				geometry.Affine{A: -1, C: w - 1, E: 1},
				geometry.Affine{A: -1, C: w, E: 1},
				nil,
			)
		case entity.AxisVertical:
			t.push(
				geometry.Affine{A: 1, E: -1, F: h - 1},
				geometry.Affine{A: 1, E: -1, F: h},
				nil,
			)
		default:
			return entity.NewInvariantError("mirror axis %q reached the compositor", p.Axis)
		}

	default:
		return entity.NewInvariantError("unrecognised edit operation %T at index %d", op.Parameters, op.Index)
	}

	return nil
}

func (t *Transform) push(pixel, continuous geometry.Affine, bounds *geometry.Rect) {
	t.pixel = t.pixel.Then(pixel)
	t.steps = append(t.steps, step{affine: continuous, clip: bounds})
}

// MapPoint maps a pixel of the original image to its pixel in the edited
// image. ok is false when a crop removed the pixel.
func (t *Transform) MapPoint(x, y float64) (p geometry.Point, ok bool) {
	orig := geometry.Point{X: x, Y: y}
	for _, c := range t.clips {
		if !c.bounds.Contains(c.pixel.Apply(orig)) {
			return geometry.Point{}, false
		}
	}
	return t.pixel.Apply(orig), true
}

// MapRect maps a rectangle of original pixel space, cutting it down to each
// crop window on the way. ok is false when nothing of it is left.
func (t *Transform) MapRect(r geometry.Rect) (geometry.Rect, bool) {
	cur := r.Canon()
	for _, s := range t.steps {
		if s.clip != nil {
			cur = cur.Intersect(*s.clip)
			if cur.Empty() {
				return geometry.Rect{}, false
			}
		}
		cur = s.affine.ApplyRect(cur)
	}
	return cur, true
}

// MapQuad maps polygon corners, pulling corners that fall outside a crop
// onto its border.
func (t *Transform) MapQuad(q geometry.Quad) geometry.Quad {
	cur := q
	for _, s := range t.steps {
		if s.clip != nil {
			for i, p := range cur {
				cur[i] = s.clip.Clamp(p)
			}
		}
		cur = s.affine.ApplyQuad(cur)
	}
	return cur
}
