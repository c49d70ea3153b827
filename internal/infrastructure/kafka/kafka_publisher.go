package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/LavaJover/little-brother/internal/domain"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

const (
	defaultBatchSize  = 100
	defaultMaxRetries = 3
	writeTimeout      = 30 * time.Second
)

var _ domain.PublisherPort = (*DefaultKafkaPublisher)(nil)

type DefaultKafkaPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

func NewDefaultKafkaPublisher(brokers []string, logger *slog.Logger) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Balancer: &kafkago.Hash{},
		},
		logger: logger.With("component", "kafka_publisher"),
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now()
	km := make([]kafkago.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafkago.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

// PublishEventBatch sends a client batch keyed by its hostname, so every
// batch of one host lands on the same partition.
func (k *DefaultKafkaPublisher) PublishEventBatch(ctx context.Context, topic string, batch *eventsdto.EventBatch) error {
	msg, err := EncodeEventBatch(batch)
	if err != nil {
		return err
	}
	return k.Publish(ctx, topic, msg)
}

// PublishAdminEvents sends events in chunks of defaultBatchSize, retrying each
// chunk with a linear backoff. Events that cannot be encoded are skipped.
func (k *DefaultKafkaPublisher) PublishAdminEvents(ctx context.Context, topic string, events []*domain.AdminEvent) error {
	msgs := make([]domain.Message, 0, len(events))
	for _, event := range events {
		msg, err := EncodeAdminEvent(event)
		if err != nil {
			k.logger.Warn("skipping admin event", "event_type", event.EventType, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}

	published := 0
	var lastErr error
	for start := 0; start < len(msgs); start += defaultBatchSize {
		chunk := msgs[start:min(start+defaultBatchSize, len(msgs))]

		if err := k.publishWithRetry(ctx, topic, chunk); err != nil {
			lastErr = err
			continue
		}
		published += len(chunk)
	}

	k.logger.Debug("admin events published", "topic", topic, "published", published, "total", len(events))
	if published == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

func (k *DefaultKafkaPublisher) publishWithRetry(ctx context.Context, topic string, msgs []domain.Message) error {
	var err error
	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		if err = k.Publish(ctx, topic, msgs...); err == nil {
			return nil
		}

		k.logger.Warn("publish attempt failed", "topic", topic, "attempt", attempt, "error", err)
		if attempt == defaultMaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return fmt.Errorf("publish to %s after %d attempts: %w", topic, defaultMaxRetries, err)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
