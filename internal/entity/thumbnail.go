package entity

type ThumbnailSource string

const (
	SourceEditsReplaced ThumbnailSource = "edits_replaced"
	SourceEditsCleared  ThumbnailSource = "edits_cleared"
)

// ThumbnailTask asks the processor to rebuild the edited renditions of an
// asset from its original.
type ThumbnailTask struct {
	AssetID string          `json:"asset_id"`
	Source  ThumbnailSource `json:"source"`
}

type Rendition string

const (
	RenditionPreview   Rendition = "preview"
	RenditionThumbnail Rendition = "thumbnail"
)
