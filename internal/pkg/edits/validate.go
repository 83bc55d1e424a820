// Package edits holds the geometry core of asset editing: accepting an edit
// list, composing it into one coordinate transform, and deciding which
// annotations survive the crop.
package edits

import (
	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

// CheckEligible rejects assets whose format cannot take geometric edits.
func CheckEligible(kind entity.AssetKind) error {
	switch {
	case !kind.IsImage:
		return entity.NewValidationError(entity.NotAnImage, "only images can be edited")
	case kind.IsLivePhotoMotion:
		return entity.NewValidationError(entity.LivePhoto, "editing live photos is not supported")
	case kind.IsPanorama:
		return entity.NewValidationError(entity.Panorama, "editing panorama images is not supported")
	case kind.IsAnimated:
		return entity.NewValidationError(entity.Animated, "editing GIF images is not supported")
	}
	return nil
}

// Validate checks a candidate edit list against the asset's original
// dimensions. A zero original means the dimensions are unknown. Crop
// coordinates are always authored against the original image.
func Validate(ops []entity.EditOperation, original geometry.Dimensions) error {
	if len(ops) == 0 {
		return entity.NewValidationError(entity.NoOperations, "at least one edit action must be provided")
	}

	// mirror may repeat with a different axis, everything else once
	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		if op.Parameters == nil {
			return entity.NewValidationError(entity.InvalidParameters, "edit at index %d has no parameters", op.Index)
		}

		key := uniquenessKey(op)
		if _, dup := seen[key]; dup {
			if op.Action() == entity.ActionCrop {
				return entity.NewValidationError(entity.MultipleCrops, "only one crop is allowed per edit list")
			}
			return entity.NewValidationError(entity.DuplicateOperation, "duplicate edit actions are not allowed")
		}
		seen[key] = struct{}{}
	}

	indices := make(map[int]struct{}, len(ops))
	for _, op := range ops {
		if op.Index < 0 {
			return entity.NewValidationError(entity.InvalidParameters, "edit index must be non-negative, got %d", op.Index)
		}
		if _, dup := indices[op.Index]; dup {
			return entity.NewValidationError(entity.DuplicateIndex, "edit index %d is used more than once", op.Index)
		}
		indices[op.Index] = struct{}{}
	}

	if crop, ok := entity.CropOf(ops); ok {
		if !original.Valid() {
			return entity.NewValidationError(entity.DimensionsUnavailable, "asset dimensions are not available for editing")
		}
		if exceeds(crop.X, crop.Width, original.Width) || exceeds(crop.Y, crop.Height, original.Height) {
			return entity.NewValidationError(entity.CropOutOfBounds,
				"crop %dx%d at (%d,%d) is out of bounds for %dx%d",
				crop.Width, crop.Height, crop.X, crop.Y, original.Width, original.Height)
		}
	}

	for _, op := range ops {
		if err := validateParameters(op.Parameters); err != nil {
			return err
		}
	}

	return nil
}

// exceeds reports offset+size > limit without computing the sum, which can
// wrap for sizes near math.MaxInt. Negative sizes are left to field
// validation.
func exceeds(offset, size, limit int) bool {
	if size < 0 {
		return false
	}
	return size > limit || offset > limit-size
}

func uniquenessKey(op entity.EditOperation) string {
	if m, ok := op.Parameters.(entity.MirrorParameters); ok {
		return string(entity.ActionMirror) + "-" + string(m.Axis)
	}
	return string(op.Action())
}

func validateParameters(p entity.EditParameters) error {
	switch p := p.(type) {
	case entity.CropParameters:
		if p.Width < 1 || p.Height < 1 {
			return entity.NewValidationError(entity.InvalidParameters, "crop width and height must be at least 1")
		}
		if p.X < 0 || p.Y < 0 {
			return entity.NewValidationError(entity.InvalidParameters, "crop position must be non-negative")
		}
	case entity.RotateParameters:
		switch p.Angle {
		case 0, 90, 180, 270:
		default:
			return entity.NewValidationError(entity.InvalidParameters, "rotation angle must be one of 0, 90, 180, 270, got %d", p.Angle)
		}
	case entity.MirrorParameters:
		if p.Axis != entity.AxisHorizontal && p.Axis != entity.AxisVertical {
			return entity.NewValidationError(entity.InvalidParameters, "mirror axis must be horizontal or vertical, got %q", p.Axis)
		}
	default:
		return entity.NewValidationError(entity.UnknownAction, "unknown edit action")
	}
	return nil
}
