package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("structor", "0.0.1", exporter))

	ctx, parent := StartSpan(context.Background(), "orchestrator.Run", KindInternal)
	parent.WithAttributes(map[string]string{"session": "s1"})
	_, child := StartSpan(ctx, "field.execute f1", KindClient)
	child.WithInt("attempt", 1)
	EndSpan(child, errors.New("boom"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "field.execute f1", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, "orchestrator.Run", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	var nilSpan *Span
	assert.NotPanics(t, func() {
		nilSpan.WithAttributes(map[string]string{"k": "v"}).WithInt("n", 1)
		EndSpan(nilSpan, nil)
	})
}
