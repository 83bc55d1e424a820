package processor

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Surface is a mutable image the executor edits in place.
type Surface interface {
	Crop(x, y, width, height int) error
	Rotate(angle int) error
	FlipHorizontal() error
	FlipVertical() error
	Size() geometry.Dimensions
	Image() image.Image
	Encode(w io.Writer, format Format) error
}

type imagingSurface struct {
	img     *image.NRGBA
	quality int
}

// NewSurface copies img into a surface backed by the imaging package.
func NewSurface(img image.Image, jpegQuality int) Surface {
	if jpegQuality <= 0 {
		jpegQuality = 90
	}
	return &imagingSurface{img: imaging.Clone(img), quality: jpegQuality}
}

// Crop keeps the part of the window that lies on the image. Sizes are
// clamped before adding so huge widths cannot wrap around.
func (s *imagingSurface) Crop(x, y, width, height int) error {
	b := s.img.Bounds()
	if x < 0 || y < 0 || width < 1 || height < 1 || x >= b.Dx() || y >= b.Dy() {
		return fmt.Errorf("crop %dx%d at (%d,%d) misses the %dx%d image",
			width, height, x, y, b.Dx(), b.Dy())
	}

	width = min(width, b.Dx()-x)
	height = min(height, b.Dy()-y)
	s.img = imaging.Crop(s.img, image.Rect(x, y, x+width, y+height).Add(b.Min))
	return nil
}

// Rotate turns the image clockwise. imaging rotates counter-clockwise.
func (s *imagingSurface) Rotate(angle int) error {
	switch angle {
	case 0:
	case 90:
		s.img = imaging.Rotate270(s.img)
	case 180:
		s.img = imaging.Rotate180(s.img)
	case 270:
		s.img = imaging.Rotate90(s.img)
	default:
		return entity.NewInvariantError("rotation by %d degrees reached the executor", angle)
	}
	return nil
}

func (s *imagingSurface) FlipHorizontal() error {
	s.img = imaging.FlipH(s.img)
	return nil
}

func (s *imagingSurface) FlipVertical() error {
	s.img = imaging.FlipV(s.img)
	return nil
}

func (s *imagingSurface) Size() geometry.Dimensions {
	b := s.img.Bounds()
	return geometry.Dimensions{Width: b.Dx(), Height: b.Dy()}
}

func (s *imagingSurface) Image() image.Image {
	return s.img
}

func (s *imagingSurface) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPNG:
		return imaging.Encode(w, s.img, imaging.PNG)
	case FormatJPEG, "":
		return imaging.Encode(w, s.img, imaging.JPEG, imaging.JPEGQuality(s.quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

type Executor interface {
	Apply(ctx context.Context, surface Surface, ops []entity.EditOperation) error
}

type executor struct{}

func NewExecutor() Executor {
	return &executor{}
}

// Apply runs ops against surface one at a time in index order, each step
// working on the output of the previous one. On error the surface is left
// in an unspecified state and must be discarded.
func (e *executor) Apply(ctx context.Context, surface Surface, ops []entity.EditOperation) error {
	for _, op := range entity.SortByIndex(ops) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := applyOne(surface, op); err != nil {
			return fmt.Errorf("edit %s at index %d: %w", op.Action(), op.Index, err)
		}

		logrus.WithFields(logrus.Fields{
			"action": op.Action(),
			"index":  op.Index,
			"width":  surface.Size().Width,
			"height": surface.Size().Height,
		}).Debug("Edit applied")
	}
	return nil
}

func applyOne(surface Surface, op entity.EditOperation) error {
	switch p := op.Parameters.(type) {
	case entity.CropParameters:
		return surface.Crop(p.X, p.Y, p.Width, p.Height)
	case entity.RotateParameters:
		return surface.Rotate(p.Angle)
	case entity.MirrorParameters:
		switch p.Axis {
		case entity.AxisHorizontal:
			return surface.FlipHorizontal()
		case entity.AxisVertical:
			return surface.FlipVertical()
		default:
			return entity.NewInvariantError("mirror axis %q reached the executor", p.Axis)
		}
	default:
		return entity.NewInvariantError("unrecognised edit operation %T", op.Parameters)
	}
}
