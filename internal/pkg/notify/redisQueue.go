package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

const defaultPollTimeout = 5 * time.Second

type RedisQueueConfig struct {
	Queue string
	// Consumer names this process's processing list. It must be stable
	// across restarts and unique among live consumers; empty picks a random
	// name, which leaves a crashed process's tasks unrecovered.
	Consumer    string
	MaxRetries  int
	RetryDelay  time.Duration
	PollTimeout time.Duration
}

// RedisQueue keeps thumbnail tasks in redis lists: <queue> for pending work,
// <queue>:processing:<consumer> for the task a consumer has in flight and
// <queue>:dlq for tasks that ran out of retries.
type RedisQueue struct {
	client      *redis.Client
	mainQueue   string
	processing  string
	dlq         string
	retry       *RetryManager
	pollTimeout time.Duration
}

// NewRedisQueue takes ownership of client; Close closes it.
func NewRedisQueue(client *redis.Client, cfg RedisQueueConfig) *RedisQueue {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.Consumer == "" {
		cfg.Consumer = uuid.NewString()
	}
	return &RedisQueue{
		client:      client,
		mainQueue:   cfg.Queue,
		processing:  cfg.Queue + ":processing:" + cfg.Consumer,
		dlq:         cfg.Queue + ":dlq",
		retry:       NewRetryManager(cfg.MaxRetries, cfg.RetryDelay),
		pollTimeout: cfg.PollTimeout,
	}
}

func (r *RedisQueue) RequestThumbnailRegeneration(ctx context.Context, task entity.ThumbnailTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := r.client.LPush(ctx, r.mainQueue, body).Err(); err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

// Consume runs handler on each task until ctx is done. A failed task is
// retried with backoff and then parked in the dead letter list.
func (r *RedisQueue) Consume(ctx context.Context, handler func(message []byte) error) error {
	logrus.WithFields(logrus.Fields{
		"queue": r.mainQueue,
		"dlq":   r.dlq,
	}).Info("Redis consumer started")

	r.recover(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		data, err := r.client.BLMove(ctx, r.mainQueue, r.processing, "RIGHT", "LEFT", r.pollTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("Failed to fetch task from redis")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		r.run(ctx, data, handler)

		if err := r.client.LRem(context.WithoutCancel(ctx), r.processing, 1, data).Err(); err != nil {
			logrus.WithError(err).Warn("Failed to remove task from processing list")
		}
	}
}

func (r *RedisQueue) run(ctx context.Context, data string, handler func(message []byte) error) {
	for attempt := 1; ; attempt++ {
		err := handler([]byte(data))
		if err == nil {
			return
		}

		delay, ok := r.retry.Next(attempt)
		if !ok {
			logrus.WithError(err).WithField("attempts", attempt).Error("Task moved to dead letter queue")
			if err := r.client.LPush(context.WithoutCancel(ctx), r.dlq, data).Err(); err != nil {
				logrus.WithError(err).Error("Failed to push task to dead letter queue")
			}
			return
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("Task failed, retrying")

		select {
		case <-ctx.Done():
			// back to the head of the queue for the next consumer
			if err := r.client.RPush(context.WithoutCancel(ctx), r.mainQueue, data).Err(); err != nil {
				logrus.WithError(err).Error("Failed to requeue task")
			}
			return
		case <-time.After(delay):
		}
	}
}

// recover puts tasks this consumer left in flight before a crash back on the
// queue. Other consumers' processing lists are never touched.
func (r *RedisQueue) recover(ctx context.Context) {
	moved := 0
	for {
		err := r.client.LMove(ctx, r.processing, r.mainQueue, "LEFT", "RIGHT").Err()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logrus.WithError(err).Warn("Failed to recover in-flight tasks")
			}
			break
		}
		moved++
	}
	if moved > 0 {
		logrus.WithField("tasks", moved).Info("Recovered in-flight thumbnail tasks")
	}
}

type QueueStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	DLQ        int64 `json:"dlq"`
}

func (r *RedisQueue) Stats(ctx context.Context) (*QueueStats, error) {
	pipe := r.client.Pipeline()

	pending := pipe.LLen(ctx, r.mainQueue)
	processing := pipe.LLen(ctx, r.processing)
	dlq := pipe.LLen(ctx, r.dlq)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get queue stats: %w", err)
	}

	return &QueueStats{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		DLQ:        dlq.Val(),
	}, nil
}

func (r *RedisQueue) Close() error {
	return r.client.Close()
}

func (r *RedisQueue) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
