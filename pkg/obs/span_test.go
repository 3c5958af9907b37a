package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	otelcodes "go.opentelemetry.io/otel/codes"
)

func TestStartEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := StartSpan(context.Background(), "CreateBooking", attribute.String("provider.id", "P1"))
	EndSpan(span, errors.New("slot unavailable"))

	_, ok := StartSpan(context.Background(), "ok")
	EndSpan(ok, nil)

	ended := recorder.Ended()
	if assert.Len(t, ended, 2) {
		assert.Equal(t, "CreateBooking", ended[0].Name())
		assert.Equal(t, otelcodes.Error, ended[0].Status().Code)
		assert.Contains(t, ended[0].Attributes(), attribute.String("provider.id", "P1"))
		assert.Equal(t, otelcodes.Unset, ended[1].Status().Code)
	}
}
