package entity

import "github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"

type AnnotationKind string

const (
	AnnotationFace AnnotationKind = "face"
	AnnotationOCR  AnnotationKind = "ocr"
)

// AnnotationBox is either a face rectangle in pixels of its reference image
// or an OCR quadrilateral normalized to [0,1] of that image.
type AnnotationBox struct {
	ID    string         `json:"id"`
	Kind  AnnotationKind `json:"kind"`
	Box   *geometry.Rect `json:"box,omitempty"`
	Quad  *geometry.Quad `json:"quad,omitempty"`
	Text  string         `json:"text,omitempty"`
	Score float64        `json:"score,omitempty"`
}

func NewFaceBox(id string, x1, y1, x2, y2 float64) AnnotationBox {
	return AnnotationBox{ID: id, Kind: AnnotationFace, Box: &geometry.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

func NewOCRBox(id string, quad geometry.Quad, text string) AnnotationBox {
	return AnnotationBox{ID: id, Kind: AnnotationOCR, Quad: &quad, Text: text}
}

// Extent is the axis-aligned bounding box in reference pixel space.
func (a AnnotationBox) Extent(reference geometry.Dimensions) geometry.Rect {
	switch {
	case a.Box != nil:
		return a.Box.Canon()
	case a.Quad != nil:
		return a.Quad.Scale(float64(reference.Width), float64(reference.Height)).Bounds()
	default:
		return geometry.Rect{}
	}
}

func (a AnnotationBox) Valid() bool {
	return (a.Box == nil) != (a.Quad == nil)
}

// RemappedAnnotation is a visible annotation with its coordinates moved
// into the edited image. DisplayBox is in edited pixels, DisplayQuad is
// normalized to the edited dimensions.
type RemappedAnnotation struct {
	AnnotationBox
	DisplayBox  *geometry.Rect `json:"displayBox,omitempty"`
	DisplayQuad *geometry.Quad `json:"displayQuad,omitempty"`
}

type AnnotationPartition struct {
	Visible    []RemappedAnnotation `json:"visible"`
	Hidden     []AnnotationBox      `json:"hidden"`
	Dimensions geometry.Dimensions  `json:"dimensions"`
}

// StoredAnnotation is an annotation row together with the image size it was
// detected on.
type StoredAnnotation struct {
	AssetID   string
	Box       AnnotationBox
	Reference geometry.Dimensions
	IsVisible bool
}
