package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	TaskTimeout time.Duration
}

// StartThumbnailConsumer reads thumbnail tasks until ctx is cancelled.
// Tasks run one at a time so two edits of the same asset cannot race on its
// renditions.
func StartThumbnailConsumer(ctx context.Context, cfg ConsumerConfig, processor ThumbnailProcessor) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 2 * time.Minute
	}

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
		"group":   cfg.GroupID,
	}).Info("Thumbnail consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logrus.Info("Thumbnail consumer stopped")
				return nil
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Debug("Received thumbnail task")

		// kafka offsets only move forward, a failed task waits for the next edit
		_ = HandleMessage(ctx, msg.Value, processor, cfg.TaskTimeout)
	}
}

// HandleMessage decodes one task and runs it. Bad payloads and tasks for
// assets that no longer exist are logged and dropped; any other failure is
// returned so the caller can retry.
func HandleMessage(ctx context.Context, payload []byte, processor ThumbnailProcessor, timeout time.Duration) error {
	var task entity.ThumbnailTask
	if err := json.Unmarshal(payload, &task); err != nil || task.AssetID == "" {
		logrus.WithField("payload", string(payload)).Warn("Failed to parse thumbnail task")
		return nil
	}

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := logrus.WithField("asset_id", task.AssetID)

	if err := processor.Process(taskCtx, task); err != nil {
		if errors.Is(err, entity.ErrAssetNotFound) {
			log.Warn("Thumbnail task for unknown asset dropped")
			return nil
		}
		log.WithError(err).Error("Thumbnail task failed")
		return err
	}
	log.Info("Thumbnail task completed")
	return nil
}
