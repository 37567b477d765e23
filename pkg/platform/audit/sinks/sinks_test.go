package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/internal/platform/kafka/producer"
	audit "skillchain/pkg/platform/audit"
)

type capturingProducer struct {
	msgs []*producer.Message
	err  error
}

func (p *capturingProducer) Produce(_ context.Context, msg *producer.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestKafkaSink(t *testing.T) {
	p := &capturingProducer{}
	sink := NewKafkaSink(p, "skillchain.audit")

	event := audit.Event{
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Action:    audit.ActionShareAccessed,
		Subject:   "share_abc_123",
		Decision:  audit.DecisionGranted,
		RequestID: "req-9",
	}
	require.NoError(t, sink.Append(context.Background(), event))

	require.Len(t, p.msgs, 1)
	msg := p.msgs[0]
	assert.Equal(t, "skillchain.audit", msg.Topic)
	assert.Equal(t, []byte("share_abc_123"), msg.Key)
	assert.Equal(t, audit.ActionShareAccessed, msg.Headers["action"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestFanoutReturnsFirstError(t *testing.T) {
	mem := NewMemorySink()
	failing := NewKafkaSink(&capturingProducer{err: errors.New("broker down")}, "t")
	f := Fanout{failing, mem, NewLogSink(slog.New(slog.NewTextHandler(io.Discard, nil)))}

	err := f.Append(context.Background(), audit.Event{Action: audit.ActionWalletLogin})

	assert.EqualError(t, err, "broker down")
	assert.Len(t, mem.Events(), 1)
}
