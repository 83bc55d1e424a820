package service

import (
	"context"

	repository "github.com/ds124wfegd/WB_L3/editor/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/notify"
)

type EditService interface {
	// Основные операции
	ValidateAndStore(ctx context.Context, assetID string, ops []entity.EditOperation) (*entity.EditSequence, error)
	GetEdits(ctx context.Context, assetID string) ([]entity.EditOperation, error)
	RemoveEdits(ctx context.Context, assetID string) error

	// Аннотации
	RemapAnnotations(ctx context.Context, assetID string, annotations []entity.AnnotationBox, reference geometry.Dimensions) (*entity.AnnotationPartition, error)
	GetFaces(ctx context.Context, assetID string) (*entity.AnnotationPartition, error)
	GetOcr(ctx context.Context, assetID string) (*entity.AnnotationPartition, error)
	RefreshVisibility(ctx context.Context, assetID string) error
}

type editService struct {
	assets      repository.AssetRepository
	edits       repository.EditRepository
	annotations repository.AnnotationRepository
	thumbnails  notify.ThumbnailRequester
}

func NewEditService(
	assets repository.AssetRepository,
	edits repository.EditRepository,
	annotations repository.AnnotationRepository,
	thumbnails notify.ThumbnailRequester,
) EditService {
	return &editService{
		assets:      assets,
		edits:       edits,
		annotations: annotations,
		thumbnails:  thumbnails,
	}
}
