package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/pkg/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanLedgerCall, tracer.String(tracer.AttrMethod, "credentials"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
	span.AddEvent("retry", tracer.Int64("attempt", 2))
	span.End(errors.New("boom"))
}

func TestOTelTracerWithGlobalProvider(t *testing.T) {
	_, span := tracer.NewOTel().Start(context.Background(), tracer.SpanLedgerWait,
		tracer.String(tracer.AttrTxHash, "0xabc"),
		tracer.Duration("timeout_ms", 2*time.Minute),
	)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Int64(tracer.AttrCredentialID, 7))
	span.End(nil)
}
