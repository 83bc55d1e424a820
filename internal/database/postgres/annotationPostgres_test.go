package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

func TestListFaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "image_width", "image_height", "x1", "y1", "x2", "y2", "score", "is_visible"}).
		AddRow("face-1", 1000, 800, 10, 20, 110, 140, 0.9, true)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM asset_face`)).WithArgs(testAsset).WillReturnRows(rows)

	faces, err := NewAnnotationRepository(db).ListFaces(context.Background(), testAsset)
	require.NoError(t, err)
	require.Len(t, faces, 1)

	f := faces[0]
	assert.Equal(t, geometry.Dimensions{Width: 1000, Height: 800}, f.Reference)
	assert.Equal(t, entity.AnnotationFace, f.Box.Kind)
	assert.Equal(t, geometry.Rect{X1: 10, Y1: 20, X2: 110, Y2: 140}, *f.Box.Box)
	assert.InDelta(t, 0.9, f.Box.Score, 1e-9)
	assert.True(t, f.IsVisible)
}

func TestListOCR(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "x1", "y1", "x2", "y2", "x3", "y3", "x4", "y4", "text", "box_score", "is_visible", "width", "height"}).
		AddRow("ocr-1", 0.1, 0.1, 0.2, 0.1, 0.2, 0.2, 0.1, 0.2, "hello", 0.8, false, 1000, 800)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM asset_ocr o`)).WithArgs(testAsset).WillReturnRows(rows)

	boxes, err := NewAnnotationRepository(db).ListOCR(context.Background(), testAsset)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	b := boxes[0]
	assert.Equal(t, "hello", b.Box.Text)
	require.NotNil(t, b.Box.Quad)
	assert.Equal(t, geometry.Point{X: 0.2, Y: 0.2}, b.Box.Quad[2])
	assert.Equal(t, geometry.Dimensions{Width: 1000, Height: 800}, b.Reference)
	assert.False(t, b.IsVisible)
}

func TestUpdateVisibility(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE asset_face SET is_visible = $1 WHERE id = ANY($2)`)).
		WithArgs(true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE asset_face SET is_visible = $1 WHERE id = ANY($2)`)).
		WithArgs(false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewAnnotationRepository(db).UpdateVisibility(context.Background(), entity.AnnotationFace,
		[]string{"a", "b"}, []string{"c"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVisibilitySkipsEmptySets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE asset_ocr`)).
		WithArgs(false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewAnnotationRepository(db).UpdateVisibility(context.Background(), entity.AnnotationOCR, nil, []string{"x"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVisibilityUnknownKind(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewAnnotationRepository(db).UpdateVisibility(context.Background(), entity.AnnotationKind("tag"), nil, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
