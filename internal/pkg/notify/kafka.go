package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type kafkaRequester struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaRequester connects to brokers and makes sure topic exists. When
// Kafka cannot be reached it falls back to a logging requester.
func NewKafkaRequester(brokers, topic string) ThumbnailRequester {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log := logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		log.WithError(err).Warn("Kafka connection failed, using mock requester instead")
		writer.Close()
		return NewLogRequester()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.WithError(err).Info("Could not create topic (might already exist)")
	}

	log.Info("Connected to Kafka")
	return &kafkaRequester{writer: writer, topic: topic}
}

func (p *kafkaRequester) RequestThumbnailRegeneration(ctx context.Context, task entity.ThumbnailTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return err
	}

	// keyed by asset so tasks for one asset stay ordered on a partition
	msg := kafka.Message{
		Key:   []byte(task.AssetID),
		Value: value,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.WithError(err).WithField("asset_id", task.AssetID).Error("Failed to write message to Kafka")
		return err
	}

	logrus.WithFields(logrus.Fields{"asset_id": task.AssetID, "topic": p.topic}).Debug("Thumbnail task sent")
	return nil
}

func (p *kafkaRequester) Close() error {
	return p.writer.Close()
}
