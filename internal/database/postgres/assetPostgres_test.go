package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

var assetColumns = []string{
	"id", "type", "original_path", "width", "height",
	"live_photo_video_id", "projection_type", "created_at", "updated_at",
}

func TestGetAssetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM assets`)).
		WithArgs(testAsset).
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow(testAsset, "IMAGE", "original/a.jpg", 1000, 800, "7e1c0a4b-0000-4000-8000-000000000001", "", now, now))

	asset, err := NewAssetRepository(db).GetByID(context.Background(), testAsset)
	require.NoError(t, err)

	assert.Equal(t, entity.AssetImage, asset.Type)
	dims, ok := asset.OriginalDimensions()
	assert.True(t, ok)
	assert.Equal(t, 1000, dims.Width)
	require.NotNil(t, asset.LivePhotoVideoID)
	assert.True(t, asset.Kind().IsLivePhotoMotion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetWithoutDimensions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM assets`)).
		WithArgs(testAsset).
		WillReturnRows(sqlmock.NewRows(assetColumns).
			AddRow(testAsset, "IMAGE", "original/a.png", 0, 0, nil, "", now, now))

	asset, err := NewAssetRepository(db).GetByID(context.Background(), testAsset)
	require.NoError(t, err)

	_, ok := asset.OriginalDimensions()
	assert.False(t, ok)
	assert.Nil(t, asset.LivePhotoVideoID)
}

func TestGetAssetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM assets`)).
		WithArgs(testAsset).
		WillReturnError(sql.ErrNoRows)

	_, err = NewAssetRepository(db).GetByID(context.Background(), testAsset)
	assert.ErrorIs(t, err, entity.ErrAssetNotFound)
}
