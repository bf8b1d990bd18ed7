package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

const maxRetries = 3

var retryBackoff = time.Second

type MessageHandler interface {
	HandleAdCreated(ctx context.Context, msg *models.AdCreatedMessage) error
}

type Consumer struct {
	handler       MessageHandler
	consumerGroup sarama.ConsumerGroup
	topics        []string
	ready         chan bool
}

type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

func NewConsumer(config ConsumerConfig, handler MessageHandler) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create a consumer group: %w", err)
	}

	return &Consumer{
		handler:       handler,
		consumerGroup: consumerGroup,
		topics:        config.Topics,
		ready:         make(chan bool),
	}, nil
}

// Start joins the group and blocks until the first session is set up or ctx ends.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		handler: c.handler,
		ready:   c.ready,
	}

	go func() {
		for {
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				logrus.WithError(err).Error("consumer error")
			}

			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.consumerGroup.Errors() {
			logrus.WithError(err).Warn("consumer group error")
		}
	}()

	select {
	case <-c.ready:
		logrus.WithField("topics", c.topics).Info("kafka consumer started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

type consumerGroupHandler struct {
	handler   MessageHandler
	ready     chan bool
	readyOnce sync.Once
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	// Setup runs again after every rebalance; ready is only closed once.
	h.readyOnce.Do(func() { close(h.ready) })
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			if err := h.processWithRetry(session.Context(), message.Value, maxRetries); err != nil {
				// Interrupted by shutdown or rebalance: leave the offset
				// uncommitted so the message is redelivered.
				if session.Context().Err() != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"partition": message.Partition,
						"offset":    message.Offset,
					}).Warn("processing interrupted, message left unmarked")
					return nil
				}
				logrus.WithError(err).WithFields(logrus.Fields{
					"partition": message.Partition,
					"offset":    message.Offset,
				}).Error("dropping message")
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processWithRetry(ctx context.Context, value []byte, retries int) error {
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := h.process(ctx, value); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d retries: %w", retries, lastErr)
}

// process returns nil for malformed payloads so they are skipped, not retried.
func (h *consumerGroupHandler) process(ctx context.Context, value []byte) error {
	var msg models.AdCreatedMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		logrus.WithError(err).Warn("unmarshal error, skipping message")
		return nil
	}
	if msg.EventID == "" {
		logrus.Warn("message without event_id, skipping")
		return nil
	}

	return h.handler.HandleAdCreated(ctx, &msg)
}
