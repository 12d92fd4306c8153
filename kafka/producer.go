package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer writes keyed messages to a single topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic, logger: logger}
}

// Publish writes value keyed by key. Messages with the same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("Kafka publish failed", zap.String("topic", p.topic), zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	p.logger.Info("Closing Kafka producer", zap.String("topic", p.topic))
	return p.writer.Close()
}
