//go:build integration

package containers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"skillchain/pkg/platform/audit"
)

// KafkaContainer wraps a Kafka-compatible broker.
type KafkaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

// NewKafkaContainer starts Redpanda, which boots faster than Kafka and
// speaks the same protocol.
func NewKafkaContainer(t *testing.T) *KafkaContainer {
	t.Helper()

	ctx := context.Background()

	container, err := kafka.Run(ctx,
		"redpandadata/redpanda:v24.2.4",
		kafka.WithClusterID("skillchain-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}

	brokers, err := container.Brokers(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	return &KafkaContainer{Container: container, Brokers: brokers}
}

func (k *KafkaContainer) CreateTopic(ctx context.Context, topic string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(k.Brokers...))
	if err != nil {
		return err
	}
	defer client.Close()

	_, err = kadm.NewClient(client).CreateTopics(ctx, 1, 1, nil, topic)
	return err
}

// WaitForAuditEvent consumes topic from the start until an event matching
// match arrives or timeout passes.
func (k *KafkaContainer) WaitForAuditEvent(ctx context.Context, topic string, timeout time.Duration, match func(audit.Event, *kgo.Record) bool) (*audit.Event, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(k.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for ctx.Err() == nil {
		fetches := client.PollFetches(ctx)
		var found *audit.Event
		fetches.EachRecord(func(r *kgo.Record) {
			var e audit.Event
			if found == nil && json.Unmarshal(r.Value, &e) == nil && match(e, r) {
				found = &e
			}
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, ctx.Err()
}
