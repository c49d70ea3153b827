package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/little-brother/internal/domain"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

func EncodeEventBatch(batch *eventsdto.EventBatch) (domain.Message, error) {
	v, err := json.Marshal(batch)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode event batch: %w", err)
	}
	return domain.Message{Key: []byte(batch.Hostname), Value: v}, nil
}

func DecodeEventBatch(msg domain.Message) (*eventsdto.EventBatch, error) {
	var batch eventsdto.EventBatch
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		return nil, fmt.Errorf("decode event batch: %w", err)
	}
	if batch.Hostname == "" {
		batch.Hostname = string(msg.Key)
	}
	return &batch, nil
}

func EncodeAdminEvent(event *domain.AdminEvent) (domain.Message, error) {
	v, err := json.Marshal(event)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode admin event: %w", err)
	}
	return domain.Message{Key: []byte(event.Hostname), Value: v}, nil
}

func DecodeAdminEvent(msg domain.Message) (*domain.AdminEvent, error) {
	var event domain.AdminEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("decode admin event: %w", err)
	}
	return &event, nil
}
