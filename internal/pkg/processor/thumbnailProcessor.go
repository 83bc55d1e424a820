package processor

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/storage"
)

type AssetSource interface {
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
}

type EditSource interface {
	GetEdits(ctx context.Context, assetID string) ([]entity.EditOperation, error)
}

type VisibilityRefresher interface {
	RefreshVisibility(ctx context.Context, assetID string) error
}

type RenditionConfig struct {
	PreviewSize   int
	ThumbnailSize int
	JPEGQuality   int
}

type ThumbnailProcessor interface {
	Process(ctx context.Context, task entity.ThumbnailTask) error
}

type thumbnailProcessor struct {
	assets     AssetSource
	edits      EditSource
	visibility VisibilityRefresher
	storage    storage.FileStorage
	executor   Executor
	cfg        RenditionConfig
}

func NewThumbnailProcessor(
	assets AssetSource,
	edits EditSource,
	visibility VisibilityRefresher,
	files storage.FileStorage,
	executor Executor,
	cfg RenditionConfig,
) ThumbnailProcessor {
	if cfg.PreviewSize <= 0 {
		cfg.PreviewSize = 1440
	}
	if cfg.ThumbnailSize <= 0 {
		cfg.ThumbnailSize = 250
	}
	return &thumbnailProcessor{
		assets:     assets,
		edits:      edits,
		visibility: visibility,
		storage:    files,
		executor:   executor,
		cfg:        cfg,
	}
}

const EditedRoot = "edited"

// EditedDir is where the renditions of an edited asset live.
func EditedDir(assetID string) string {
	return path.Join(EditedRoot, assetID)
}

func RenditionPath(assetID string, r entity.Rendition) string {
	return path.Join(EditedDir(assetID), string(r)+".jpeg")
}

// Process rebuilds the edited renditions of one asset from its original. An
// asset without edits loses its renditions.
func (p *thumbnailProcessor) Process(ctx context.Context, task entity.ThumbnailTask) error {
	log := logrus.WithFields(logrus.Fields{"asset_id": task.AssetID, "source": task.Source})
	log.Info("Processing thumbnail task")

	asset, err := p.assets.GetByID(ctx, task.AssetID)
	if err != nil {
		return fmt.Errorf("failed to load asset: %w", err)
	}

	ops, err := p.edits.GetEdits(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to load edits: %w", err)
	}

	if len(ops) == 0 {
		if err := p.storage.DeleteAll(EditedDir(asset.ID)); err != nil {
			return fmt.Errorf("failed to remove edited renditions: %w", err)
		}
		log.Info("Edited renditions removed")
		return p.refresh(ctx, asset.ID)
	}

	surface, err := p.loadOriginal(asset)
	if err != nil {
		return err
	}

	if err := p.executor.Apply(ctx, surface, ops); err != nil {
		return fmt.Errorf("failed to apply edits: %w", err)
	}

	renditions := map[entity.Rendition]int{
		entity.RenditionPreview:   p.cfg.PreviewSize,
		entity.RenditionThumbnail: p.cfg.ThumbnailSize,
	}
	for r, size := range renditions {
		if err := p.saveRendition(surface, RenditionPath(asset.ID, r), size); err != nil {
			return fmt.Errorf("failed to save %s: %w", r, err)
		}
	}

	log.WithFields(logrus.Fields{
		"width":  surface.Size().Width,
		"height": surface.Size().Height,
	}).Info("Edited renditions written")

	return p.refresh(ctx, asset.ID)
}

func (p *thumbnailProcessor) loadOriginal(asset *entity.Asset) (Surface, error) {
	file, err := p.storage.Get(asset.OriginalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original: %w", err)
	}
	defer file.Close()

	img, err := Decode(file)
	if err != nil {
		return nil, err
	}
	return NewSurface(img, p.cfg.JPEGQuality), nil
}

func (p *thumbnailProcessor) saveRendition(surface Surface, target string, size int) error {
	scaled := NewSurface(imaging.Fit(surface.Image(), size, size, imaging.Lanczos), p.cfg.JPEGQuality)

	var buf bytes.Buffer
	if err := scaled.Encode(&buf, FormatJPEG); err != nil {
		return err
	}
	return p.storage.Save(target, &buf)
}

func (p *thumbnailProcessor) refresh(ctx context.Context, assetID string) error {
	if p.visibility == nil {
		return nil
	}
	if err := p.visibility.RefreshVisibility(ctx, assetID); err != nil {
		return fmt.Errorf("failed to refresh annotation visibility: %w", err)
	}
	return nil
}
