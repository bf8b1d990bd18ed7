package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

type ProducerConfig struct {
	Brokers []string
	Topic   string
}

func NewSaramaProducerConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

func NewProducer(config ProducerConfig) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, NewSaramaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	logrus.WithField("topic", config.Topic).Info("kafka producer initialized")
	return NewProducerWith(producer, config.Topic), nil
}

// NewProducerWith wraps an existing sarama producer.
func NewProducerWith(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic}
}

// PublishAdCreated sends the stored entry keyed by its id, so every event for
// one entry lands on the same partition.
func (p *Producer) PublishAdCreated(ctx context.Context, entry models.AdEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := models.AdCreatedMessage{
		EventID:   uuid.NewString(),
		Entry:     entry,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal ad created message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(strconv.FormatInt(entry.ID, 10)),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":  msg.EventID,
		"ad_id":     entry.ID,
		"partition": partition,
		"offset":    offset,
	}).Debug("ad created event published")
	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close producer: %w", err)
	}
	logrus.Info("kafka producer closed")
	return nil
}
