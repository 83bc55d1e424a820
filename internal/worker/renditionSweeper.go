package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/processor"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/storage"
)

// RenditionSweeper removes edited renditions that outlived their edits,
// e.g. when a clear request never reached the processor or the asset was
// deleted.
type RenditionSweeper struct {
	files    storage.FileStorage
	edits    processor.EditSource
	interval time.Duration
}

func NewRenditionSweeper(files storage.FileStorage, edits processor.EditSource, interval time.Duration) *RenditionSweeper {
	return &RenditionSweeper{
		files:    files,
		edits:    edits,
		interval: interval,
	}
}

func (w *RenditionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("Rendition sweeper started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Rendition sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logrus.WithError(err).Error("Rendition sweep failed")
			}
		}
	}
}

// Sweep makes one pass over the edited directories and returns how many it
// removed.
func (w *RenditionSweeper) Sweep(ctx context.Context) (int, error) {
	ids, err := w.files.List(processor.EditedRoot)
	if err != nil {
		return 0, err
	}

	removed, failed := 0, 0
	for _, id := range ids {
		if ctx.Err() != nil {
			logrus.Info("Rendition sweep interrupted")
			return removed, ctx.Err()
		}

		ops, err := w.edits.GetEdits(ctx, id)
		switch {
		case errors.Is(err, entity.ErrAssetNotFound):
		case err != nil:
			logrus.WithError(err).WithField("asset_id", id).Warn("Failed to load edits during sweep")
			failed++
			continue
		case len(ops) > 0:
			continue
		}

		if err := w.files.DeleteAll(processor.EditedDir(id)); err != nil {
			logrus.WithError(err).WithField("asset_id", id).Warn("Failed to remove stale renditions")
			failed++
			continue
		}
		logrus.WithField("asset_id", id).Debug("Stale renditions removed")
		removed++
	}

	if removed > 0 || failed > 0 {
		logrus.Infof("Rendition sweep completed: %d removed, %d failed", removed, failed)
	}
	return removed, nil
}
