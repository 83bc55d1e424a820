package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/edits"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
)

func (s *editService) ValidateAndStore(ctx context.Context, assetID string, ops []entity.EditOperation) (*entity.EditSequence, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := edits.CheckEligible(asset.Kind()); err != nil {
		return nil, err
	}

	original, known := asset.OriginalDimensions()
	if err := edits.Validate(ops, original); err != nil {
		return nil, err
	}

	// without a stored size there is nothing to compose against; the
	// sequence is still accepted since it holds no crop
	var final geometry.Dimensions
	if known {
		if final, err = edits.Dimensions(original, ops); err != nil {
			return nil, err
		}
	}

	sorted := entity.SortByIndex(ops)
	if err := s.edits.Replace(ctx, asset.ID, sorted); err != nil {
		return nil, fmt.Errorf("failed to store edits: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": asset.ID,
		"edits":    len(sorted),
		"width":    final.Width,
		"height":   final.Height,
	}).Info("Edits stored")

	s.requestThumbnails(ctx, asset.ID, entity.SourceEditsReplaced)

	return &entity.EditSequence{AssetID: asset.ID, Edits: sorted, Dimensions: final}, nil
}

func (s *editService) GetEdits(ctx context.Context, assetID string) ([]entity.EditOperation, error) {
	if _, err := s.assets.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	ops, err := s.edits.List(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load edits: %w", err)
	}
	return ops, nil
}

func (s *editService) RemoveEdits(ctx context.Context, assetID string) error {
	if _, err := s.assets.GetByID(ctx, assetID); err != nil {
		return err
	}

	if err := s.edits.Clear(ctx, assetID); err != nil {
		return fmt.Errorf("failed to clear edits: %w", err)
	}

	logrus.WithField("asset_id", assetID).Info("Edits cleared")
	s.requestThumbnails(ctx, assetID, entity.SourceEditsCleared)
	return nil
}

// requestThumbnails never fails the caller; the edit list is already
// committed and the processor can be re-triggered by the next edit.
func (s *editService) requestThumbnails(ctx context.Context, assetID string, source entity.ThumbnailSource) {
	if s.thumbnails == nil {
		return
	}
	task := entity.ThumbnailTask{AssetID: assetID, Source: source}
	if err := s.thumbnails.RequestThumbnailRegeneration(ctx, task); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"asset_id": assetID,
			"source":   source,
		}).Error("Failed to request thumbnail regeneration")
	}
}

func (s *editService) RemapAnnotations(ctx context.Context, assetID string, annotations []entity.AnnotationBox, reference geometry.Dimensions) (*entity.AnnotationPartition, error) {
	asset, ops, err := s.assetWithEdits(ctx, assetID)
	if err != nil {
		return nil, err
	}

	original, _ := asset.OriginalDimensions()
	out, err := edits.Remap(annotations, reference, original, ops)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *editService) GetFaces(ctx context.Context, assetID string) (*entity.AnnotationPartition, error) {
	asset, ops, err := s.assetWithEdits(ctx, assetID)
	if err != nil {
		return nil, err
	}

	rows, err := s.annotations.ListFaces(ctx, asset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load faces: %w", err)
	}
	return remapStored(rows, asset, ops)
}

func (s *editService) GetOcr(ctx context.Context, assetID string) (*entity.AnnotationPartition, error) {
	asset, ops, err := s.assetWithEdits(ctx, assetID)
	if err != nil {
		return nil, err
	}

	rows, err := s.annotations.ListOCR(ctx, asset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ocr: %w", err)
	}
	return remapStored(rows, asset, ops)
}

// RefreshVisibility recomputes and stores the visibility flag of every face
// and text box of the asset against its current crop.
func (s *editService) RefreshVisibility(ctx context.Context, assetID string) error {
	asset, ops, err := s.assetWithEdits(ctx, assetID)
	if err != nil {
		return err
	}

	original, _ := asset.OriginalDimensions()
	crop, _ := entity.CropOf(ops)

	faces, err := s.annotations.ListFaces(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to load faces: %w", err)
	}
	ocr, err := s.annotations.ListOCR(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to load ocr: %w", err)
	}

	groups := []struct {
		kind entity.AnnotationKind
		rows []entity.StoredAnnotation
	}{
		{entity.AnnotationFace, faces},
		{entity.AnnotationOCR, ocr},
	}

	for _, g := range groups {
		kind, rows := g.kind, g.rows
		if len(rows) == 0 {
			continue
		}

		var visible, hidden []string
		for _, row := range rows {
			if edits.Visible(row.Box, referenceOf(row, original), original, crop) {
				visible = append(visible, row.Box.ID)
			} else {
				hidden = append(hidden, row.Box.ID)
			}
		}

		if err := s.annotations.UpdateVisibility(ctx, kind, visible, hidden); err != nil {
			return fmt.Errorf("failed to store %s visibility: %w", kind, err)
		}

		logrus.WithFields(logrus.Fields{
			"asset_id": asset.ID,
			"kind":     kind,
			"visible":  len(visible),
			"hidden":   len(hidden),
		}).Debug("Annotation visibility refreshed")
	}
	return nil
}

func (s *editService) assetWithEdits(ctx context.Context, assetID string) (*entity.Asset, []entity.EditOperation, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}

	ops, err := s.edits.List(ctx, asset.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load edits: %w", err)
	}
	return asset, ops, nil
}

func referenceOf(row entity.StoredAnnotation, original geometry.Dimensions) geometry.Dimensions {
	if row.Reference.Valid() {
		return row.Reference
	}
	return original
}

// remapStored runs Remap per row, since each row carries the size of the
// image it was detected on.
func remapStored(rows []entity.StoredAnnotation, asset *entity.Asset, ops []entity.EditOperation) (*entity.AnnotationPartition, error) {
	original, _ := asset.OriginalDimensions()

	out := &entity.AnnotationPartition{
		Visible: make([]entity.RemappedAnnotation, 0, len(rows)),
		Hidden:  make([]entity.AnnotationBox, 0),
	}

	if original.Valid() {
		final, err := edits.Dimensions(original, ops)
		if err != nil {
			return nil, err
		}
		out.Dimensions = final
	}

	for _, row := range rows {
		part, err := edits.Remap([]entity.AnnotationBox{row.Box}, referenceOf(row, original), original, ops)
		if err != nil {
			return nil, err
		}
		out.Visible = append(out.Visible, part.Visible...)
		out.Hidden = append(out.Hidden, part.Hidden...)
		if !out.Dimensions.Valid() {
			out.Dimensions = part.Dimensions
		}
	}
	return out, nil
}
