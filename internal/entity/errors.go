package entity

import (
	"errors"
	"fmt"
)

var (
	// Asset errors
	ErrAssetNotFound = errors.New("asset not found")
	ErrFileNotFound  = errors.New("file not found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)

type ValidationReason string

const (
	NoOperations          ValidationReason = "no_operations"
	DuplicateOperation    ValidationReason = "duplicate_operation"
	DuplicateIndex        ValidationReason = "duplicate_index"
	MultipleCrops         ValidationReason = "multiple_crops"
	CropOutOfBounds       ValidationReason = "crop_out_of_bounds"
	DimensionsUnavailable ValidationReason = "dimensions_unavailable"
	InvalidParameters     ValidationReason = "invalid_parameters"
	UnknownAction         ValidationReason = "unknown_action"
	NotAnImage            ValidationReason = "not_an_image"
	LivePhoto             ValidationReason = "live_photo"
	Panorama              ValidationReason = "panorama"
	Animated              ValidationReason = "animated"
)

// ValidationError is a user-correctable rejection of an edit request.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InternalInvariantError marks a state validation should have made
// unreachable. It is logged and never shown to callers.
type InternalInvariantError struct {
	Message string
}

func (e *InternalInvariantError) Error() string {
	return "internal invariant violated: " + e.Message
}

func NewInvariantError(format string, args ...any) *InternalInvariantError {
	return &InternalInvariantError{Message: fmt.Sprintf(format, args...)}
}
