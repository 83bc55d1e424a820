package repository

import (
	"context"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
}

// EditRepository stores one asset's edit list as rows keyed by
// (asset_id, index). Replace is atomic: readers see either the old or the
// new list, never a mix.
type EditRepository interface {
	Replace(ctx context.Context, assetID string, ops []entity.EditOperation) error
	List(ctx context.Context, assetID string) ([]entity.EditOperation, error)
	Clear(ctx context.Context, assetID string) error
}

type AnnotationRepository interface {
	ListFaces(ctx context.Context, assetID string) ([]entity.StoredAnnotation, error)
	ListOCR(ctx context.Context, assetID string) ([]entity.StoredAnnotation, error)
	UpdateVisibility(ctx context.Context, kind entity.AnnotationKind, visible, hidden []string) error
}
