// Package obsv wires tracing and metrics for a verification run, pairing
// OpenTelemetry spans with Prometheus counters the way code-watch's
// shared/observability package pairs them for its scan service.
package obsv

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Tracer is the package-wide tracer engine.Job uses for its single
// "engine.Job.Run" span per verification run.
var Tracer = otel.Tracer("plugin-verifier")

// NewTracerProvider builds an SDK tracer provider with no exporter
// attached by default; callers that want spans shipped somewhere register
// a span processor on the returned provider. A provider with no exporter still lets
// span creation and context propagation work, which is all the engine
// needs when no collector is configured.
func NewTracerProvider() *trace.TracerProvider {
	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

// Shutdown flushes and stops the tracer provider; call during process
// exit so buffered spans aren't lost.
func Shutdown(ctx context.Context, tp *trace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}
