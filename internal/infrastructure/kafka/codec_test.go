package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/little-brother/internal/domain"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

func TestEventBatchCodec(t *testing.T) {
	started := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	batch := &eventsdto.EventBatch{
		Secret:   "token",
		Hostname: "pc",
		Events: []*domain.AdminEvent{{
			Hostname:         "pc",
			Username:         "kid",
			PID:              4711,
			EventType:        domain.EventProcessStart,
			EventTime:        started,
			ProcessStartTime: &started,
		}},
		ClientStats: &eventsdto.ClientStats{UptimeSeconds: 12.5},
	}

	msg, err := EncodeEventBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, "pc", string(msg.Key))

	decoded, err := DecodeEventBatch(msg)
	require.NoError(t, err)
	if diff := cmp.Diff(batch, decoded); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEventBatch_HostnameFromKey(t *testing.T) {
	decoded, err := DecodeEventBatch(domain.Message{Key: []byte("laptop"), Value: []byte(`{"secret":"x","events":[]}`)})
	require.NoError(t, err)
	assert.Equal(t, "laptop", decoded.Hostname)

	_, err = DecodeEventBatch(domain.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestAdminEventCodec(t *testing.T) {
	event := &domain.AdminEvent{Hostname: "pc", Username: "kid", EventType: domain.EventKillProcess, PID: 4711}

	msg, err := EncodeAdminEvent(event)
	require.NoError(t, err)
	assert.Equal(t, "pc", string(msg.Key))

	decoded, err := DecodeAdminEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestPublishAdminEvents_NothingToSend(t *testing.T) {
	p := NewDefaultKafkaPublisher([]string{"localhost:9092"}, discardLogger())
	defer p.Close()

	assert.NoError(t, p.PublishAdminEvents(context.Background(), "admin-events", nil))
}
