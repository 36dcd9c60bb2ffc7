// tracing.go wires OpenTelemetry spans around the orchestrator's
// Connect call (dial plus the whole handshake); individual handshake
// steps and send/receive get no spans. The Tracer interface and its NoOpTracer are
// always built in rather than gated behind a build tag, since this
// client has no non-OTel production backend to fall back to.
package obslog

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanEnder ends a span; call with nil for success or an error to mark
// the span failed.
type SpanEnder func(err error)

// SpanKind mirrors the handful of OTel span kinds this client needs.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindClient
)

// Tracer starts spans around client operations. Modeled as a capability
// so tests can substitute NoOpTracer rather than requiring a configured
// OTel SDK.
type Tracer interface {
	StartSpan(ctx context.Context, name string, kind SpanKind, attrs map[string]string) (context.Context, SpanEnder)
}

// NoOpTracer discards all spans; the default when no Tracer is configured.
type NoOpTracer struct{}

func (NoOpTracer) StartSpan(ctx context.Context, _ string, _ SpanKind, _ map[string]string) (context.Context, SpanEnder) {
	return ctx, func(error) {}
}

// OTelTracer adapts go.opentelemetry.io/otel to Tracer.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer builds an OTelTracer using the global TracerProvider
// under the given instrumentation name.
func NewOTelTracer(instrumentationName string) *OTelTracer {
	if instrumentationName == "" {
		instrumentationName = "tls13-client"
	}
	return &OTelTracer{tracer: otel.Tracer(instrumentationName)}
}

func (t *OTelTracer) StartSpan(ctx context.Context, name string, kind SpanKind, attrs map[string]string) (context.Context, SpanEnder) {
	startOpts := []trace.SpanStartOption{trace.WithSpanKind(otelKind(kind))}
	if len(attrs) > 0 {
		startOpts = append(startOpts, trace.WithAttributes(otelAttributes(attrs)...))
	}

	ctx, span := t.tracer.Start(ctx, name, startOpts...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func otelKind(kind SpanKind) trace.SpanKind {
	if kind == SpanKindClient {
		return trace.SpanKindClient
	}
	return trace.SpanKindInternal
}

func otelAttributes(attrs map[string]string) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, attribute.String(k, v))
	}
	return out
}
