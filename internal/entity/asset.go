package entity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

type AssetType string

const (
	AssetImage AssetType = "IMAGE"
	AssetVideo AssetType = "VIDEO"
)

const projectionEquirectangular = "EQUIRECTANGULAR"

type Asset struct {
	ID               string    `json:"id" db:"id"`
	Type             AssetType `json:"type" db:"type"`
	OriginalPath     string    `json:"originalPath" db:"original_path"`
	Width            int       `json:"width,omitempty" db:"width"`
	Height           int       `json:"height,omitempty" db:"height"`
	LivePhotoVideoID *string   `json:"livePhotoVideoId,omitempty" db:"live_photo_video_id"`
	ProjectionType   string    `json:"projectionType,omitempty" db:"projection_type"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// AssetKind is the subset of asset metadata that decides whether the asset
// may be edited at all.
type AssetKind struct {
	IsImage           bool
	IsLivePhotoMotion bool
	IsPanorama        bool
	IsAnimated        bool
}

func (a *Asset) Kind() AssetKind {
	ext := strings.ToLower(filepath.Ext(a.OriginalPath))
	return AssetKind{
		IsImage:           a.Type == AssetImage,
		IsLivePhotoMotion: a.LivePhotoVideoID != nil,
		IsPanorama:        strings.EqualFold(a.ProjectionType, projectionEquirectangular) || ext == ".insp",
		IsAnimated:        ext == ".gif",
	}
}

// OriginalDimensions reports false when the width or height were never
// extracted from the file.
func (a *Asset) OriginalDimensions() (geometry.Dimensions, bool) {
	d := geometry.Dimensions{Width: a.Width, Height: a.Height}
	return d, d.Valid()
}
