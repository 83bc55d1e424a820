package edits

import (
	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

// Remap classifies annotations detected on an image of size reference
// against the crop in ops, and moves the visible ones into the coordinate
// space of the edited image. Face boxes come back in edited pixels, OCR
// quads normalized to the edited size.
func Remap(annotations []entity.AnnotationBox, reference, original geometry.Dimensions, ops []entity.EditOperation) (entity.AnnotationPartition, error) {
	for i, a := range annotations {
		if !a.Valid() {
			return entity.AnnotationPartition{}, entity.NewValidationError(entity.InvalidParameters,
				"annotation %d must carry exactly one of box or quad", i)
		}
	}

	// with no stored size the reference image stands in for the original
	base := original
	if !base.Valid() {
		base = reference
	}
	if !reference.Valid() {
		reference = base
	}

	crop, _ := entity.CropOf(ops)
	if !base.Valid() {
		if crop != nil {
			return entity.AnnotationPartition{}, entity.NewValidationError(entity.DimensionsUnavailable,
				"asset dimensions are not available for editing")
		}
		return uncropped(annotations, ops), nil
	}

	t, err := Compose(base, ops)
	if err != nil {
		return entity.AnnotationPartition{}, err
	}

	split := Classify(annotations, reference, base, crop)

	out := entity.AnnotationPartition{
		Visible:    make([]entity.RemappedAnnotation, 0, len(split.Visible)),
		Hidden:     split.Hidden,
		Dimensions: t.Final,
	}

	sx, sy := reference.ScaleTo(base)
	for _, a := range split.Visible {
		r := entity.RemappedAnnotation{AnnotationBox: a}
		switch {
		case a.Box != nil:
			if box, ok := t.MapRect(a.Box.Canon().Scale(sx, sy)); ok {
				r.DisplayBox = &box
			}
		case a.Quad != nil:
			q := t.MapQuad(a.Quad.Scale(float64(base.Width), float64(base.Height)))
			q = q.Scale(1/float64(t.Final.Width), 1/float64(t.Final.Height))
			r.DisplayQuad = &q
		}
		out.Visible = append(out.Visible, r)
	}

	return out, nil
}

// uncropped handles a sequence without a crop when no image size is known:
// everything stays visible. Coordinates can only be carried over when there
// are no edits at all; a turn or flip needs the size to be mapped.
func uncropped(annotations []entity.AnnotationBox, ops []entity.EditOperation) entity.AnnotationPartition {
	out := entity.AnnotationPartition{
		Visible: make([]entity.RemappedAnnotation, 0, len(annotations)),
		Hidden:  make([]entity.AnnotationBox, 0),
	}

	for _, a := range annotations {
		r := entity.RemappedAnnotation{AnnotationBox: a}
		if len(ops) == 0 {
			switch {
			case a.Box != nil:
				box := a.Box.Canon()
				r.DisplayBox = &box
			case a.Quad != nil:
				q := *a.Quad
				r.DisplayQuad = &q
			}
		}
		out.Visible = append(out.Visible, r)
	}
	return out
}
