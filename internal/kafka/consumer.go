package kafka

import (
	"context"
	"errors"
	"io"

	"ms-marketplace/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer wraps a kafka.Reader for one topic.
type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewConsumer creates a Kafka consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string, logger *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: logger}
}

// Start consumes messages until the context is cancelled, handing each raw
// message to the handler. Handler errors are logged, not fatal; the
// message is considered consumed either way.
func (c *Consumer) Start(ctx context.Context, handler func(key, value []byte) error) {
	c.logger.LogKafka("CONSUME", c.reader.Config().Topic, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.LogKafka("CONSUME", c.reader.Config().Topic, "consumer stopped")
				return
			}
			c.logger.Error("KAFKA", "Error reading message: "+err.Error())
			continue
		}

		if err := handler(msg.Key, msg.Value); err != nil {
			c.logger.Error("KAFKA", "Handler error for key "+string(msg.Key)+": "+err.Error())
		}
	}
}

// Close gracefully shuts down the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
