package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerProvider manages the lifecycle of the OpenTelemetry tracer
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// RenderTracer provides distributed tracing for the render pipeline
type RenderTracer struct {
	tracer trace.Tracer
}

// NewTracerProvider creates a new OpenTelemetry tracer provider
func NewTracerProvider(serviceName, serviceVersion, otlpEndpoint string) (*TracerProvider, error) {
	exporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(), // TODO: Add TLS configuration
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.ServiceNamespaceKey.String("vizor-core"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.tp.Shutdown(ctx)
}

// NewRenderTracer creates a new render tracer
func NewRenderTracer(serviceName string) *RenderTracer {
	tracer := otel.Tracer(serviceName)
	return &RenderTracer{tracer: tracer}
}

// StartRenderSpan starts the root span for a render request
func (rt *RenderTracer) StartRenderSpan(ctx context.Context, requestID string, payloadBytes int) (context.Context, trace.Span) {
	ctx, span := rt.tracer.Start(ctx, "render",
		trace.WithAttributes(
			attribute.String("render.request_id", requestID),
			attribute.Int("render.payload_bytes", payloadBytes),
			attribute.String("component", "render-pipeline"),
		),
	)
	return ctx, span
}

// StartStageSpan starts a span for one pipeline stage (normalize, analyze,
// recommend, build).
func (rt *RenderTracer) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	ctx, span := rt.tracer.Start(ctx, "pipeline_stage",
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("component", "render-pipeline"),
		),
	)
	return ctx, span
}

// StartCacheOperationSpan starts a span for cache operations
func (rt *RenderTracer) StartCacheOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	ctx, span := rt.tracer.Start(ctx, "cache_operation",
		trace.WithAttributes(
			attribute.String("cache.operation", operation),
			attribute.String("cache.key", key),
			attribute.String("component", "cache"),
		),
	)
	return ctx, span
}

// RecordRenderMetrics records render outcome attributes on a span
func (rt *RenderTracer) RecordRenderMetrics(span trace.Span, kind string, state string, duration time.Duration, rowCount int, success bool) {
	span.SetAttributes(
		attribute.String("render.kind", kind),
		attribute.String("render.state", state),
		attribute.Int64("render.duration_ms", duration.Milliseconds()),
		attribute.Int("render.row_count", rowCount),
		attribute.Bool("render.success", success),
	)

	if !success {
		span.SetStatus(codes.Error, "render failed")
	}
}

// RecordCacheMetrics records cache operation metrics on a span
func (rt *RenderTracer) RecordCacheMetrics(span trace.Span, hit bool, duration time.Duration) {
	span.SetAttributes(
		attribute.Bool("cache.hit", hit),
		attribute.Int64("cache.duration_ms", duration.Milliseconds()),
	)
}

// RecordError records an error on a span
func (rt *RenderTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}

// Global tracer instance
var globalRenderTracer *RenderTracer

// InitGlobalTracer initializes the global render tracer
func InitGlobalTracer(serviceName string) {
	globalRenderTracer = NewRenderTracer(serviceName)
}

// GetGlobalTracer returns the global render tracer
func GetGlobalTracer() *RenderTracer {
	return globalRenderTracer
}
