package appServer

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/config"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/notify"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/processor"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/storage"
	"github.com/ds124wfegd/WB_L3/editor/internal/worker"
)

// NewProcessor runs the thumbnail consumer until SIGINT or SIGTERM.
func NewProcessor(cfg *config.Config) {

	setupLogging(cfg)

	// the processor only consumes, it never requests thumbnails itself
	deps, err := newDependencies(cfg, notify.NewLogRequester())
	if err != nil {
		logrus.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer deps.Close()

	files := storage.NewFileStorage(cfg.Storage.BasePath)

	thumbnails := processor.NewThumbnailProcessor(
		deps.assets,
		deps.edits,
		deps.edits,
		files,
		processor.NewExecutor(),
		processor.RenditionConfig{
			PreviewSize:   cfg.Editor.PreviewSize,
			ThumbnailSize: cfg.Editor.ThumbnailSize,
			JPEGQuality:   cfg.Editor.JPEGQuality,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Storage.SweepInterval > 0 {
		go worker.NewRenditionSweeper(files, deps.edits, cfg.Storage.SweepInterval).Start(ctx)
	}

	handle := func(message []byte) error {
		return processor.HandleMessage(ctx, message, thumbnails, cfg.Broker.TaskTimeout)
	}

	switch cfg.Broker.Kind {
	case "rabbitmq":
		q, err := notify.NewRabbitMQ(notify.RabbitMQConfig{URL: cfg.Broker.RabbitURL, QueueName: cfg.Broker.Queue})
		if err != nil {
			logrus.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer q.Close()

		logrus.WithField("queue", cfg.Broker.Queue).Info("Thumbnail consumer started")
		if err := q.Consume(ctx, handle); err != nil {
			logrus.Errorf("RabbitMQ consumer stopped: %v", err)
		}

	case "redis":
		q, err := newRedisQueue(cfg)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis queue: %v", err)
		}
		defer q.Close()

		if stats, err := q.Stats(ctx); err == nil {
			logrus.WithFields(logrus.Fields{
				"pending":    stats.Pending,
				"processing": stats.Processing,
				"dlq":        stats.DLQ,
			}).Info("Redis queue state")
		}

		if err := q.Consume(ctx, handle); err != nil {
			logrus.Errorf("Redis consumer stopped: %v", err)
		}

	default:
		err := processor.StartThumbnailConsumer(ctx, processor.ConsumerConfig{
			Brokers:     strings.Split(cfg.Broker.Brokers, ","),
			Topic:       cfg.Broker.Topic,
			GroupID:     cfg.Broker.GroupID,
			TaskTimeout: cfg.Broker.TaskTimeout,
		}, thumbnails)
		if err != nil {
			logrus.Errorf("Kafka consumer stopped: %v", err)
		}
	}

	logrus.Print("Processor Shutting Down")
	_ = os.Stdout.Sync()
}
