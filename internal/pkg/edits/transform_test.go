package edits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

func TestComposeDimensions(t *testing.T) {
	tests := []struct {
		name string
		ops  []entity.EditOperation
		want geometry.Dimensions
	}{
		{"no edits", nil, geometry.Dimensions{Width: 1000, Height: 800}},
		{"rotate 0", []entity.EditOperation{entity.NewRotate(0, 0)}, geometry.Dimensions{Width: 1000, Height: 800}},
		{"rotate 90", []entity.EditOperation{entity.NewRotate(0, 90)}, geometry.Dimensions{Width: 800, Height: 1000}},
		{"rotate 180", []entity.EditOperation{entity.NewRotate(0, 180)}, geometry.Dimensions{Width: 1000, Height: 800}},
		{"rotate 270", []entity.EditOperation{entity.NewRotate(0, 270)}, geometry.Dimensions{Width: 800, Height: 1000}},
		{"mirror", []entity.EditOperation{entity.NewMirror(0, entity.AxisVertical)}, geometry.Dimensions{Width: 1000, Height: 800}},
		{"crop", []entity.EditOperation{entity.NewCrop(0, 10, 20, 300, 200)}, geometry.Dimensions{Width: 300, Height: 200}},
		{
			name: "crop then rotate",
			ops:  []entity.EditOperation{entity.NewRotate(1, 90), entity.NewCrop(0, 0, 0, 300, 200)},
			want: geometry.Dimensions{Width: 200, Height: 300},
		},
		{
			name: "rotate then crop past the turned canvas",
			ops:  []entity.EditOperation{entity.NewRotate(0, 90), entity.NewCrop(1, 0, 0, 1000, 500)},
			want: geometry.Dimensions{Width: 800, Height: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dimensions(original, tt.ops)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFourQuarterTurnsAreIdentity(t *testing.T) {
	ops := []entity.EditOperation{
		entity.NewRotate(0, 90),
		entity.NewRotate(1, 90),
		entity.NewRotate(2, 90),
		entity.NewRotate(3, 90),
	}

	tr, err := Compose(original, ops)
	require.NoError(t, err)
	assert.Equal(t, original, tr.Final)

	for _, p := range []geometry.Point{{X: 0, Y: 0}, {X: 123, Y: 456}, {X: 999, Y: 799}} {
		got, ok := tr.MapPoint(p.X, p.Y)
		require.True(t, ok)
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	}
}

func TestMirrorBothAxesMatchesHalfTurn(t *testing.T) {
	square := geometry.Dimensions{Width: 1000, Height: 1000}
	mirrored, err := Compose(square, []entity.EditOperation{
		entity.NewMirror(0, entity.AxisHorizontal),
		entity.NewMirror(1, entity.AxisVertical),
	})
	require.NoError(t, err)
	turned, err := Compose(square, []entity.EditOperation{entity.NewRotate(0, 180)})
	require.NoError(t, err)

	for _, p := range []geometry.Point{{X: 0, Y: 0}, {X: 250, Y: 750}, {X: 999, Y: 0}, {X: 10, Y: 990}} {
		a, ok := mirrored.MapPoint(p.X, p.Y)
		require.True(t, ok)
		b, ok := turned.MapPoint(p.X, p.Y)
		require.True(t, ok)
		assert.Equal(t, b, a)
	}

	// top-left quadrant lands bottom-right
	got, _ := turned.MapPoint(100, 100)
	assert.Equal(t, geometry.Point{X: 899, Y: 899}, got)
}

func TestMapPointFormulas(t *testing.T) {
	tests := []struct {
		name string
		op   entity.EditOperation
		want geometry.Point
	}{
		{"rotate 90", entity.NewRotate(0, 90), geometry.Point{X: 799 - 20, Y: 10}},
		{"rotate 180", entity.NewRotate(0, 180), geometry.Point{X: 999 - 10, Y: 799 - 20}},
		{"rotate 270", entity.NewRotate(0, 270), geometry.Point{X: 20, Y: 999 - 10}},
		{"mirror horizontal", entity.NewMirror(0, entity.AxisHorizontal), geometry.Point{X: 989, Y: 20}},
		{"mirror vertical", entity.NewMirror(0, entity.AxisVertical), geometry.Point{X: 10, Y: 779}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Compose(original, []entity.EditOperation{tt.op})
			require.NoError(t, err)

			got, ok := tr.MapPoint(10, 20)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCropClipsPoints(t *testing.T) {
	tr, err := Compose(original, []entity.EditOperation{entity.NewCrop(0, 100, 100, 200, 200)})
	require.NoError(t, err)

	got, ok := tr.MapPoint(150, 150)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, got)

	_, ok = tr.MapPoint(50, 50)
	assert.False(t, ok)

	// the right and bottom edges are outside
	_, ok = tr.MapPoint(300, 150)
	assert.False(t, ok)
	_, ok = tr.MapPoint(299, 299)
	assert.True(t, ok)
}

func TestCropThenRotateMapsIntoTurnedWindow(t *testing.T) {
	tr, err := Compose(original, []entity.EditOperation{
		entity.NewCrop(0, 100, 100, 200, 100),
		entity.NewRotate(1, 90),
	})
	require.NoError(t, err)
	assert.Equal(t, geometry.Dimensions{Width: 100, Height: 200}, tr.Final)

	// crop-local (0,0) is the top-left; a quarter turn puts it top-right
	got, ok := tr.MapPoint(100, 100)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 99, Y: 0}, got)
}

func TestMapRect(t *testing.T) {
	tr, err := Compose(original, []entity.EditOperation{
		entity.NewCrop(0, 100, 100, 200, 200),
		entity.NewMirror(1, entity.AxisHorizontal),
	})
	require.NoError(t, err)

	got, ok := tr.MapRect(geometry.Rect{X1: 50, Y1: 150, X2: 150, Y2: 250})
	require.True(t, ok)
	// clipped to x in [100,150), moved to [0,50), mirrored to [150,200)
	assert.Equal(t, geometry.Rect{X1: 150, Y1: 50, X2: 200, Y2: 150}, got)

	_, ok = tr.MapRect(geometry.Rect{X1: 500, Y1: 500, X2: 600, Y2: 600})
	assert.False(t, ok)
}

func TestMapRectQuarterTurn(t *testing.T) {
	tr, err := Compose(original, []entity.EditOperation{entity.NewRotate(0, 90)})
	require.NoError(t, err)

	got, ok := tr.MapRect(geometry.Rect{X1: 0, Y1: 0, X2: 100, Y2: 50})
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X1: 750, Y1: 0, X2: 800, Y2: 100}, got)
}

func TestMapQuadClampsToCrop(t *testing.T) {
	tr, err := Compose(original, []entity.EditOperation{entity.NewCrop(0, 0, 0, 500, 400)})
	require.NoError(t, err)

	got := tr.MapQuad(geometry.Quad{{X: 400, Y: 100}, {X: 600, Y: 100}, {X: 600, Y: 200}, {X: 400, Y: 200}})
	assert.Equal(t, geometry.Quad{{X: 400, Y: 100}, {X: 500, Y: 100}, {X: 500, Y: 200}, {X: 400, Y: 200}}, got)
}

func TestComposeErrors(t *testing.T) {
	_, err := Compose(geometry.Dimensions{}, []entity.EditOperation{entity.NewRotate(0, 90)})
	requireReason(t, err, entity.DimensionsUnavailable)

	narrow := geometry.Dimensions{Width: 1000, Height: 200}
	_, err = Compose(narrow, []entity.EditOperation{entity.NewRotate(0, 90), entity.NewCrop(1, 500, 0, 100, 100)})
	requireReason(t, err, entity.CropOutOfBounds)

	_, err = Compose(original, []entity.EditOperation{{Index: 0}})
	var ie *entity.InternalInvariantError
	require.ErrorAs(t, err, &ie)

	_, err = Compose(original, []entity.EditOperation{entity.NewRotate(0, 45)})
	require.ErrorAs(t, err, &ie)
}
