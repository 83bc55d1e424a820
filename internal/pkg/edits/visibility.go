package edits

import (
	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

// VisibilityThreshold is the share of an annotation's area that must stay
// inside the crop for it to count as visible. The comparison is inclusive.
const VisibilityThreshold = 0.5

// Extenter is anything with an axis-aligned extent in the pixel space of
// some reference image.
type Extenter interface {
	Extent(reference geometry.Dimensions) geometry.Rect
}

type Partition[T any] struct {
	Visible []T
	Hidden  []T
}

// Classify splits items by how much of each one the crop keeps. The crop is
// authored against original and is rescaled into reference before
// comparing. Without a crop everything is visible. Order is kept inside
// each half.
func Classify[T Extenter](items []T, reference, original geometry.Dimensions, crop *entity.CropParameters) Partition[T] {
	out := Partition[T]{Visible: make([]T, 0, len(items)), Hidden: make([]T, 0)}
	if crop == nil {
		out.Visible = append(out.Visible, items...)
		return out
	}

	for _, item := range items {
		if Visible(item, reference, original, crop) {
			out.Visible = append(out.Visible, item)
		} else {
			out.Hidden = append(out.Hidden, item)
		}
	}
	return out
}

// Visible is the single-item form of Classify, for rows that each carry
// their own reference size.
func Visible(item Extenter, reference, original geometry.Dimensions, crop *entity.CropParameters) bool {
	if crop == nil {
		return true
	}
	window := crop.Rect().Scale(original.ScaleTo(reference))
	return OverlapRatio(item.Extent(reference), window) >= VisibilityThreshold
}

// OverlapRatio is the part of extent's area covered by window. Degenerate
// extents give 0.
func OverlapRatio(extent, window geometry.Rect) float64 {
	area := extent.Canon().Area()
	if area == 0 {
		return 0
	}
	return extent.Canon().Intersect(window).Area() / area
}
