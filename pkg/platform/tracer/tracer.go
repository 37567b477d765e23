// Package tracer is a thin tracing abstraction so ledger and store code can
// emit spans without importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanLedgerCall, tracer.String(tracer.AttrMethod, "credentials"))
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute      { return Attribute{Key: key, Value: value} }
func Bool(key string, value bool) Attribute   { return Attribute{Key: key, Value: value} }
func Int64(key string, value int64) Attribute { return Attribute{Key: key, Value: value} }

// Duration records a duration in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanLedgerCall     = "ledger.call"
	SpanLedgerTransact = "ledger.transact"
	SpanLedgerWait     = "ledger.wait_confirmed"
	SpanProfileCache   = "ledger.issuer_profile.cache"
)

// Attribute keys.
const (
	AttrMethod       = "ledger.method"
	AttrCredentialID = "credential.id"
	AttrIssuer       = "issuer.address"
	AttrTxHash       = "tx.hash"
	AttrCacheHit     = "cache.hit"
	AttrCircuitState = "circuit.state"
)
