package entity

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

type EditAction string

const (
	ActionCrop   EditAction = "crop"
	ActionRotate EditAction = "rotate"
	ActionMirror EditAction = "mirror"
)

type MirrorAxis string

const (
	AxisHorizontal MirrorAxis = "horizontal"
	AxisVertical   MirrorAxis = "vertical"
)

// EditParameters is implemented only by the three parameter shapes below.
type EditParameters interface {
	Action() EditAction
	editParameters()
}

// CropParameters are pixel offsets and size against the original image.
type CropParameters struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RotateParameters holds a clockwise angle in degrees.
type RotateParameters struct {
	Angle int `json:"angle"`
}

type MirrorParameters struct {
	Axis MirrorAxis `json:"axis"`
}

func (CropParameters) Action() EditAction   { return ActionCrop }
func (RotateParameters) Action() EditAction { return ActionRotate }
func (MirrorParameters) Action() EditAction { return ActionMirror }

func (CropParameters) editParameters()   {}
func (RotateParameters) editParameters() {}
func (MirrorParameters) editParameters() {}

func (c CropParameters) Rect() geometry.Rect {
	return geometry.RectFromSize(float64(c.X), float64(c.Y), float64(c.Width), float64(c.Height))
}

// EditOperation is one step of an edit sequence. Index, not slice position,
// decides execution order.
type EditOperation struct {
	Index      int
	Parameters EditParameters
}

func NewCrop(index, x, y, width, height int) EditOperation {
	return EditOperation{Index: index, Parameters: CropParameters{X: x, Y: y, Width: width, Height: height}}
}

func NewRotate(index, angle int) EditOperation {
	return EditOperation{Index: index, Parameters: RotateParameters{Angle: angle}}
}

func NewMirror(index int, axis MirrorAxis) EditOperation {
	return EditOperation{Index: index, Parameters: MirrorParameters{Axis: axis}}
}

func (op EditOperation) Action() EditAction {
	if op.Parameters == nil {
		return ""
	}
	return op.Parameters.Action()
}

type editOperationJSON struct {
	Action     EditAction      `json:"action"`
	Parameters json.RawMessage `json:"parameters"`
	Index      int             `json:"index"`
}

func (op EditOperation) MarshalJSON() ([]byte, error) {
	params, err := json.Marshal(op.Parameters)
	if err != nil {
		return nil, err
	}
	return json.Marshal(editOperationJSON{Action: op.Action(), Parameters: params, Index: op.Index})
}

func (op *EditOperation) UnmarshalJSON(b []byte) error {
	var raw editOperationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	params, err := DecodeParameters(raw.Action, raw.Parameters)
	if err != nil {
		return err
	}

	op.Index = raw.Index
	op.Parameters = params
	return nil
}

// DecodeParameters picks the parameter shape from the action tag and only
// then decodes the payload into it.
func DecodeParameters(action EditAction, raw []byte) (EditParameters, error) {
	if len(raw) == 0 {
		return nil, NewValidationError(InvalidParameters, "parameters are required for %q", action)
	}

	switch action {
	case ActionCrop:
		var p CropParameters
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError(InvalidParameters, "invalid crop parameters: %v", err)
		}
		return p, nil
	case ActionRotate:
		var p RotateParameters
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError(InvalidParameters, "invalid rotate parameters: %v", err)
		}
		return p, nil
	case ActionMirror:
		var p MirrorParameters
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, NewValidationError(InvalidParameters, "invalid mirror parameters: %v", err)
		}
		return p, nil
	default:
		return nil, NewValidationError(UnknownAction, "unknown edit action %q", action)
	}
}

// SortByIndex returns a copy of ops in ascending index order.
func SortByIndex(ops []EditOperation) []EditOperation {
	sorted := make([]EditOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

// CropOf returns the crop of the sequence, if it has one.
func CropOf(ops []EditOperation) (*CropParameters, bool) {
	for _, op := range ops {
		if c, ok := op.Parameters.(CropParameters); ok {
			return &c, true
		}
	}
	return nil, false
}

// EditSequence is the full, ordered edit list owned by one asset.
type EditSequence struct {
	AssetID    string              `json:"assetId"`
	Edits      []EditOperation     `json:"edits"`
	Dimensions geometry.Dimensions `json:"dimensions"`
}

func (s EditSequence) String() string {
	return fmt.Sprintf("EditSequence{asset=%s, edits=%d, %dx%d}", s.AssetID, len(s.Edits), s.Dimensions.Width, s.Dimensions.Height)
}
