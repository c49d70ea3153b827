package kafka

import (
	"context"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/LavaJover/little-brother/internal/domain"
)

var _ domain.SubscriberPort = (*DefaultKafkaSubscriber)(nil)

type DefaultKafkaSubscriber struct {
	brokers []string
	logger  *slog.Logger
}

func NewDefaultKafkaSubscriber(brokers []string, logger *slog.Logger) *DefaultKafkaSubscriber {
	return &DefaultKafkaSubscriber{
		brokers: brokers,
		logger:  logger.With("component", "kafka_subscriber"),
	}
}

// Subscribe streams messages of topic until ctx is done or the reader
// fails; the channel is closed in both cases.
func (k *DefaultKafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})

	out := make(chan domain.Message)
	go func() {
		defer close(out)
		defer reader.Close()

		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					k.logger.Error("read message", "topic", topic, "error", err)
				}
				return
			}

			select {
			case out <- domain.Message{Key: m.Key, Value: m.Value}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
