package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	query := `
		SELECT id, type, original_path, COALESCE(width, 0), COALESCE(height, 0),
			live_photo_video_id, COALESCE(projection_type, ''), created_at, updated_at
		FROM assets
		WHERE id = $1
	`

	var (
		asset     entity.Asset
		livePhoto sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Type,
		&asset.OriginalPath,
		&asset.Width,
		&asset.Height,
		&livePhoto,
		&asset.ProjectionType,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if livePhoto.Valid {
		asset.LivePhotoVideoID = &livePhoto.String
	}
	return &asset, nil
}
