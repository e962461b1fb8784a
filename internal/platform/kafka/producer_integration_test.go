//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"wasl/internal/platform/config"
	"wasl/pkg/platform/audit"
	"wasl/pkg/testutil/containers"
)

func TestProducerDeliversOutboxEntries(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "wasl.lifecycle.test-" + uuid.NewString()[:8]
	p, err := NewProducer(config.KafkaConfig{Brokers: rp.Brokers, Topic: topic}, nil)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.EnsureTopic(ctx, 1))
	require.NoError(t, p.EnsureTopic(ctx, 1), "second bootstrap must tolerate an existing topic")

	entry := audit.OutboxEntry{
		ID:            uuid.New(),
		AggregateType: "candidate",
		AggregateID:   uuid.NewString(),
		EventType:     "candidate_transitioned",
		Payload:       []byte(`{"action":"candidate_transitioned"}`),
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, p.Produce(ctx, []audit.OutboxEntry{entry}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, entry.AggregateID, string(records[0].Key))
	require.JSONEq(t, string(entry.Payload), string(records[0].Value))
}
