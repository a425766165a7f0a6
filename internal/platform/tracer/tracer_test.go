package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"hrconsole/internal/platform/tracer"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, "api.GET /employees/",
		tracer.String("http.method", "GET"),
		tracer.Bool("authenticated", true),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Int("http.status_code", 200))
	span.End(nil)
}

func TestOTelTracer_Start(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), "api.POST /predict/single",
		tracer.String("http.route", "/predict/single"),
		tracer.Int("attempt", 1),
	)

	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Int("http.status_code", 500), tracer.Bool("ignored", false))
	span.End(errors.New("prediction failed"))
}

func TestOTelTracer_DefaultsToGlobalProvider(t *testing.T) {
	tr := tracer.NewOTel()

	_, span := tr.Start(context.Background(), "api.GET /auth/me")
	require.NotNil(t, span)
	span.End(nil)
}
