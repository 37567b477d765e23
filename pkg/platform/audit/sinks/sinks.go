// Package sinks holds audit.Sink implementations.
package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"skillchain/internal/platform/kafka/producer"
	audit "skillchain/pkg/platform/audit"
)

// LogSink writes events as structured log lines.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Append(ctx context.Context, e audit.Event) error {
	args := []any{
		"log_type", "audit",
		"action", e.Action,
		"subject", e.Subject,
		"decision", e.Decision,
		"timestamp", e.Timestamp,
	}
	if e.Actor != "" {
		args = append(args, "actor", e.Actor)
	}
	if e.Reason != "" {
		args = append(args, "reason", e.Reason)
	}
	if e.RequestID != "" {
		args = append(args, "request_id", e.RequestID)
	}
	for k, v := range e.Attributes {
		args = append(args, k, v)
	}
	s.logger.InfoContext(ctx, e.Action, args...)
	return nil
}

// RecordProducer publishes a Kafka record. Satisfied by *producer.Producer.
type RecordProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaSink publishes events as JSON, keyed by subject so one subject's
// events stay ordered within a partition.
type KafkaSink struct {
	producer RecordProducer
	topic    string
}

func NewKafkaSink(p RecordProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, e audit.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(e.Subject),
		Value: payload,
		Headers: map[string]string{
			"action":     e.Action,
			"request_id": e.RequestID,
		},
	})
}

// MemorySink keeps events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

// Fanout appends to every sink and returns the first error.
type Fanout []audit.Sink

func (f Fanout) Append(ctx context.Context, e audit.Event) error {
	var first error
	for _, s := range f {
		if err := s.Append(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
