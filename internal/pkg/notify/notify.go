// Package notify hands thumbnail regeneration requests to a broker. Callers
// treat a request as fire-and-forget.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type ThumbnailRequester interface {
	RequestThumbnailRegeneration(ctx context.Context, task entity.ThumbnailTask) error
	Close() error
}

// logRequester stands in when no broker is reachable.
type logRequester struct{}

func NewLogRequester() ThumbnailRequester {
	return &logRequester{}
}

func (l *logRequester) RequestThumbnailRegeneration(_ context.Context, task entity.ThumbnailTask) error {
	logrus.WithFields(logrus.Fields{
		"asset_id": task.AssetID,
		"source":   task.Source,
	}).Info("MOCK: thumbnail regeneration requested")
	return nil
}

func (l *logRequester) Close() error {
	return nil
}
