package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter - часть *kafka.Writer, которой пользуется паблишер
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type DefaultKafkaPublisher struct {
	writer     messageWriter
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

func NewDefaultKafkaPublisher(brokers []string, log *zap.Logger) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
		},
		maxRetries: 3,
		backoff:    time.Second,
		log:        log,
	}
}

// Publish пишет сообщения в topic, повторяя попытку с линейной задержкой
func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	now := time.Now()
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}

	var err error
	for attempt := 1; attempt <= k.maxRetries; attempt++ {
		writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = k.writer.WriteMessages(writeCtx, km...)
		cancel()
		if err == nil {
			return nil
		}

		k.log.Warn("kafka publish attempt failed",
			zap.String("topic", topic),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < k.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * k.backoff):
			}
		}
	}

	return fmt.Errorf("publish to %s failed after %d attempts: %w", topic, k.maxRetries, err)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
