package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bizhub/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// withSpanRecorder swaps the global tracer provider for a recording one
// for the duration of the test.
func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartSpan(t *testing.T) {
	sr := withSpanRecorder(t)

	ctx, span := telemetry.StartSpan(context.Background(), "deal.win",
		telemetry.WithAttribute("deal_id", "d-1"),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	assert.NotNil(t, ctx)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "deal.win", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())

	val, ok := findAttr(spans[0].Attributes(), "deal_id")
	require.True(t, ok)
	assert.Equal(t, "d-1", val.AsString())
}

func TestStartServiceSpan(t *testing.T) {
	sr := withSpanRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "invoice", "record_payment")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.record_payment", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	sr := withSpanRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "test.attrs")
	telemetry.SetAttributes(span,
		"name", "Acme",
		"count", 3,
		"total", 12.5,
		"open", true,
	)
	telemetry.SetAttribute(span, "units", int64(7))
	span.End()

	attrs := sr.Ended()[0].Attributes()

	val, ok := findAttr(attrs, "name")
	require.True(t, ok)
	assert.Equal(t, "Acme", val.AsString())

	val, ok = findAttr(attrs, "count")
	require.True(t, ok)
	assert.Equal(t, int64(3), val.AsInt64())

	val, ok = findAttr(attrs, "total")
	require.True(t, ok)
	assert.Equal(t, 12.5, val.AsFloat64())

	val, ok = findAttr(attrs, "open")
	require.True(t, ok)
	assert.True(t, val.AsBool())

	val, ok = findAttr(attrs, "units")
	require.True(t, ok)
	assert.Equal(t, int64(7), val.AsInt64())
}

func TestSetAttributesSkipsMalformedPairs(t *testing.T) {
	sr := withSpanRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "test.attrs")
	telemetry.SetAttributes(span, 42, "not-a-key", "valid", "yes")
	span.End()

	attrs := sr.Ended()[0].Attributes()
	_, ok := findAttr(attrs, "valid")
	assert.True(t, ok)

	// Nil span is a no-op, not a panic
	telemetry.SetAttributes(nil, "key", "value")
	telemetry.SetAttribute(nil, "key", "value")
}

func TestRecordErrorAndSetOK(t *testing.T) {
	sr := withSpanRecorder(t)

	_, failed := telemetry.StartSpan(context.Background(), "test.failed")
	telemetry.RecordError(failed, errors.New("boom"))
	failed.End()

	_, succeeded := telemetry.StartSpan(context.Background(), "test.ok")
	telemetry.SetOK(succeeded)
	succeeded.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)

	telemetry.RecordError(nil, errors.New("boom"))
	telemetry.RecordError(failed, nil)
	telemetry.SetOK(nil)
}

func TestAddEvent(t *testing.T) {
	sr := withSpanRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "test.events")
	telemetry.AddEvent(span, "payment_recorded", "amount", "100.00")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "payment_recorded", events[0].Name)

	val, ok := findAttr(events[0].Attributes, "amount")
	require.True(t, ok)
	assert.Equal(t, "100.00", val.AsString())

	telemetry.AddEvent(nil, "noop")
}

func TestTraceAndSpanIDs(t *testing.T) {
	withSpanRecorder(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "test.ids")
	defer span.End()

	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	assert.NotEmpty(t, telemetry.GetSpanID(ctx))
	assert.Equal(t, span, telemetry.SpanFromContext(ctx))

	carried := telemetry.ContextWithSpan(context.Background(), span)
	assert.Equal(t, telemetry.GetTraceID(ctx), telemetry.GetTraceID(carried))
}
