package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

type fakeAssets map[string]*entity.Asset

func (f fakeAssets) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, entity.ErrAssetNotFound
}

type memoryEdits struct {
	rows     map[string][]entity.EditOperation
	replaced int
}

func newMemoryEdits() *memoryEdits {
	return &memoryEdits{rows: map[string][]entity.EditOperation{}}
}

func (m *memoryEdits) Replace(_ context.Context, assetID string, ops []entity.EditOperation) error {
	m.replaced++
	m.rows[assetID] = append([]entity.EditOperation(nil), ops...)
	return nil
}

func (m *memoryEdits) List(_ context.Context, assetID string) ([]entity.EditOperation, error) {
	return entity.SortByIndex(m.rows[assetID]), nil
}

func (m *memoryEdits) Clear(_ context.Context, assetID string) error {
	delete(m.rows, assetID)
	return nil
}

type visibilityUpdate struct {
	kind            entity.AnnotationKind
	visible, hidden []string
}

type fakeAnnotations struct {
	faces   []entity.StoredAnnotation
	ocr     []entity.StoredAnnotation
	updates []visibilityUpdate
}

func (f *fakeAnnotations) ListFaces(context.Context, string) ([]entity.StoredAnnotation, error) {
	return f.faces, nil
}

func (f *fakeAnnotations) ListOCR(context.Context, string) ([]entity.StoredAnnotation, error) {
	return f.ocr, nil
}

func (f *fakeAnnotations) UpdateVisibility(_ context.Context, kind entity.AnnotationKind, visible, hidden []string) error {
	f.updates = append(f.updates, visibilityUpdate{kind: kind, visible: visible, hidden: hidden})
	return nil
}

type fakeRequester struct {
	tasks []entity.ThumbnailTask
	err   error
}

func (f *fakeRequester) RequestThumbnailRegeneration(_ context.Context, task entity.ThumbnailTask) error {
	f.tasks = append(f.tasks, task)
	return f.err
}

func (f *fakeRequester) Close() error { return nil }

const (
	photoID = "1d9c2b7a-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	gifID   = "2e8d3c6b-4f5a-4b2c-9d3e-2f1a0b9c8d7e"
	blindID = "3f7e4d5c-3a6b-4c1d-8e4f-3a2b1c0d9e8f"
)

type fixture struct {
	svc         EditService
	edits       *memoryEdits
	annotations *fakeAnnotations
	requester   *fakeRequester
}

func newFixture() *fixture {
	assets := fakeAssets{
		photoID: {ID: photoID, Type: entity.AssetImage, OriginalPath: "original/p.jpg", Width: 1000, Height: 800},
		gifID:   {ID: gifID, Type: entity.AssetImage, OriginalPath: "original/a.gif", Width: 100, Height: 100},
		blindID: {ID: blindID, Type: entity.AssetImage, OriginalPath: "original/b.jpg"},
	}
	f := &fixture{
		edits:       newMemoryEdits(),
		annotations: &fakeAnnotations{},
		requester:   &fakeRequester{},
	}
	f.svc = NewEditService(assets, f.edits, f.annotations, f.requester)
	return f
}

func requireReason(t *testing.T, err error, reason entity.ValidationReason) {
	t.Helper()
	var ve *entity.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, reason, ve.Reason)
}

func TestValidateAndStore(t *testing.T) {
	f := newFixture()

	seq, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{
		entity.NewRotate(1, 90),
		entity.NewCrop(0, 0, 0, 1000, 500),
	})
	require.NoError(t, err)

	assert.Equal(t, photoID, seq.AssetID)
	assert.Equal(t, geometry.Dimensions{Width: 500, Height: 1000}, seq.Dimensions)
	assert.Equal(t, []int{0, 1}, []int{seq.Edits[0].Index, seq.Edits[1].Index})
	assert.Equal(t, seq.Edits, f.edits.rows[photoID])
	assert.Equal(t, []entity.ThumbnailTask{{AssetID: photoID, Source: entity.SourceEditsReplaced}}, f.requester.tasks)
}

func TestValidateAndStoreRejections(t *testing.T) {
	tests := []struct {
		name    string
		assetID string
		ops     []entity.EditOperation
		reason  entity.ValidationReason
	}{
		{"out of bounds crop", photoID, []entity.EditOperation{entity.NewCrop(0, 900, 0, 200, 100)}, entity.CropOutOfBounds},
		{"duplicate rotate", photoID, []entity.EditOperation{entity.NewRotate(0, 90), entity.NewRotate(1, 180)}, entity.DuplicateOperation},
		{"empty", photoID, nil, entity.NoOperations},
		{"gif", gifID, []entity.EditOperation{entity.NewRotate(0, 90)}, entity.Animated},
		{"crop without size", blindID, []entity.EditOperation{entity.NewCrop(0, 0, 0, 10, 10)}, entity.DimensionsUnavailable},
		{
			name:    "crop past a turned canvas",
			assetID: photoID,
			ops:     []entity.EditOperation{entity.NewRotate(0, 90), entity.NewCrop(1, 900, 0, 50, 50)},
			reason:  entity.CropOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.ValidateAndStore(context.Background(), tt.assetID, tt.ops)
			requireReason(t, err, tt.reason)
			assert.Zero(t, f.edits.replaced)
			assert.Empty(t, f.requester.tasks)
		})
	}
}

func TestValidateAndStoreUnknownAsset(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ValidateAndStore(context.Background(), "nope", []entity.EditOperation{entity.NewRotate(0, 90)})
	assert.ErrorIs(t, err, entity.ErrAssetNotFound)
}

func TestValidateAndStoreWithoutSizeKeepsRotation(t *testing.T) {
	f := newFixture()

	seq, err := f.svc.ValidateAndStore(context.Background(), blindID, []entity.EditOperation{entity.NewRotate(0, 90)})
	require.NoError(t, err)
	assert.Equal(t, geometry.Dimensions{}, seq.Dimensions)
	assert.Len(t, f.edits.rows[blindID], 1)
}

func TestThumbnailFailureDoesNotFailTheEdit(t *testing.T) {
	f := newFixture()
	f.requester.err = errors.New("broker down")

	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{entity.NewMirror(0, entity.AxisVertical)})
	assert.NoError(t, err)
	assert.Len(t, f.requester.tasks, 1)
}

func TestGetEditsRoundTrip(t *testing.T) {
	f := newFixture()
	ops := []entity.EditOperation{
		entity.NewMirror(2, entity.AxisHorizontal),
		entity.NewCrop(0, 10, 10, 100, 100),
		entity.NewMirror(1, entity.AxisVertical),
	}

	_, err := f.svc.ValidateAndStore(context.Background(), photoID, ops)
	require.NoError(t, err)

	got, err := f.svc.GetEdits(context.Background(), photoID)
	require.NoError(t, err)
	assert.Equal(t, entity.SortByIndex(ops), got)

	_, err = f.svc.GetEdits(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrAssetNotFound)
}

func TestRemoveEdits(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{entity.NewRotate(0, 180)})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveEdits(context.Background(), photoID))

	got, err := f.svc.GetEdits(context.Background(), photoID)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, f.requester.tasks, 2)
	assert.Equal(t, entity.SourceEditsCleared, f.requester.tasks[1].Source)

	assert.ErrorIs(t, f.svc.RemoveEdits(context.Background(), "nope"), entity.ErrAssetNotFound)
}

func TestRemapAnnotationsWithoutCrop(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{
		entity.NewRotate(0, 90),
		entity.NewMirror(1, entity.AxisHorizontal),
	})
	require.NoError(t, err)

	faces := []entity.AnnotationBox{
		entity.NewFaceBox("a", 0, 0, 10, 10),
		entity.NewFaceBox("b", 990, 790, 1000, 800),
	}
	got, err := f.svc.RemapAnnotations(context.Background(), photoID, faces, geometry.Dimensions{Width: 1000, Height: 800})
	require.NoError(t, err)

	assert.Len(t, got.Visible, 2)
	assert.Empty(t, got.Hidden)
	assert.Equal(t, geometry.Dimensions{Width: 800, Height: 1000}, got.Dimensions)
}

func TestGetFacesScalesStoredReference(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{entity.NewCrop(0, 0, 0, 500, 400)})
	require.NoError(t, err)

	// detected on a 2000x1600 copy of the 1000x800 original
	f.annotations.faces = []entity.StoredAnnotation{
		{AssetID: photoID, Box: entity.NewFaceBox("in", 200, 200, 800, 600), Reference: geometry.Dimensions{Width: 2000, Height: 1600}},
		{AssetID: photoID, Box: entity.NewFaceBox("out", 1200, 1000, 1600, 1400), Reference: geometry.Dimensions{Width: 2000, Height: 1600}},
	}

	got, err := f.svc.GetFaces(context.Background(), photoID)
	require.NoError(t, err)

	require.Len(t, got.Visible, 1)
	assert.Equal(t, "in", got.Visible[0].ID)
	require.NotNil(t, got.Visible[0].DisplayBox)
	assert.Equal(t, geometry.Rect{X1: 100, Y1: 100, X2: 400, Y2: 300}, *got.Visible[0].DisplayBox)
	require.Len(t, got.Hidden, 1)
	assert.Equal(t, "out", got.Hidden[0].ID)
	assert.Equal(t, geometry.Dimensions{Width: 500, Height: 400}, got.Dimensions)
}

func TestGetOcr(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{entity.NewCrop(0, 0, 0, 500, 400)})
	require.NoError(t, err)

	quad := geometry.Quad{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.1}, {X: 0.2, Y: 0.2}, {X: 0.1, Y: 0.2}}
	f.annotations.ocr = []entity.StoredAnnotation{
		{AssetID: photoID, Box: entity.NewOCRBox("t", quad, "exit"), Reference: geometry.Dimensions{Width: 1000, Height: 800}},
	}

	got, err := f.svc.GetOcr(context.Background(), photoID)
	require.NoError(t, err)
	require.Len(t, got.Visible, 1)

	// (100,80) inside a 500x400 crop is (0.2, 0.2)
	q := *got.Visible[0].DisplayQuad
	assert.InDelta(t, 0.2, q[0].X, 1e-9)
	assert.InDelta(t, 0.2, q[0].Y, 1e-9)
}

func TestAnnotationsOfAssetWithoutSize(t *testing.T) {
	f := newFixture()

	quad := geometry.Quad{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.1}, {X: 0.2, Y: 0.2}, {X: 0.1, Y: 0.2}}
	f.annotations.ocr = []entity.StoredAnnotation{
		{AssetID: blindID, Box: entity.NewOCRBox("t", quad, "exit")},
	}
	f.annotations.faces = []entity.StoredAnnotation{
		{AssetID: blindID, Box: entity.NewFaceBox("f", 0, 0, 10, 10)},
	}

	ocr, err := f.svc.GetOcr(context.Background(), blindID)
	require.NoError(t, err)
	require.Len(t, ocr.Visible, 1)
	assert.Empty(t, ocr.Hidden)
	require.NotNil(t, ocr.Visible[0].DisplayQuad)
	assert.Equal(t, quad, *ocr.Visible[0].DisplayQuad)

	_, err = f.svc.ValidateAndStore(context.Background(), blindID, []entity.EditOperation{entity.NewRotate(0, 90)})
	require.NoError(t, err)

	faces, err := f.svc.GetFaces(context.Background(), blindID)
	require.NoError(t, err)
	assert.Len(t, faces.Visible, 1)
	assert.Empty(t, faces.Hidden)

	remapped, err := f.svc.RemapAnnotations(context.Background(), blindID,
		[]entity.AnnotationBox{entity.NewFaceBox("r", 0, 0, 5, 5)}, geometry.Dimensions{})
	require.NoError(t, err)
	assert.Len(t, remapped.Visible, 1)
}

func TestRefreshVisibility(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAndStore(context.Background(), photoID, []entity.EditOperation{entity.NewCrop(0, 0, 0, 500, 400)})
	require.NoError(t, err)

	ref := geometry.Dimensions{Width: 1000, Height: 800}
	f.annotations.faces = []entity.StoredAnnotation{
		{Box: entity.NewFaceBox("in", 0, 0, 100, 100), Reference: ref},
		{Box: entity.NewFaceBox("half", 450, 0, 550, 100), Reference: ref},
		{Box: entity.NewFaceBox("out", 600, 600, 700, 700), Reference: ref},
	}

	require.NoError(t, f.svc.RefreshVisibility(context.Background(), photoID))

	require.Len(t, f.annotations.updates, 1)
	u := f.annotations.updates[0]
	assert.Equal(t, entity.AnnotationFace, u.kind)
	assert.Equal(t, []string{"in", "half"}, u.visible)
	assert.Equal(t, []string{"out"}, u.hidden)
}
