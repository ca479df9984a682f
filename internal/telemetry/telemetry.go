// Package telemetry traces the game over OTLP HTTP. Spans cover the player
// state machine, catches, building commits and planet changes.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// DefaultServiceName is reported when no service name is configured.
	DefaultServiceName = "obbo"
	gameVersion        = "0.1.0"
	tracerPrefix       = "obbo/"
)

// Span names.
const (
	SpanInit       = "game.init"
	SpanTransition = "control.transition"
	SpanCatch      = "fishing.catch"
	SpanBuild      = "build.commit"
	SpanGenerate   = "planet.generate"
	SpanGrow       = "planet.grow"
)

// Attribute keys.
const (
	KeyFrom         = attribute.Key("state.from")
	KeyTo           = attribute.Key("state.to")
	KeyAsteroid     = attribute.Key("asteroid.index")
	KeyBuilding     = attribute.Key("building.kind")
	KeySeed         = attribute.Key("universe.seed")
	KeyAsteroids    = attribute.Key("universe.asteroids")
	KeyPlanetSize   = attribute.Key("planet.size")
	KeyPlanetScale  = attribute.Key("planet.scale")
	KeyPlanetFace   = attribute.Key("planet.face")
	KeyQueuedSlots  = attribute.Key("planet.queued_slots")
	KeyGenerationMS = attribute.Key("planet.generation_ms")
)

// Setup installs a global tracer provider exporting over OTLP HTTP. The
// exporter reads the standard OTEL_EXPORTER_OTLP_* environment variables.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, service string) (shutdown func(context.Context) error, err error) {
	if service == "" {
		service = DefaultServiceName
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithAttributes(
			attribute.String("service.name", service),
			attribute.String("service.version", gameVersion),
			attribute.String("game.name", "obbo"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Disable installs a no-op tracer provider.
func Disable() {
	otel.SetTracerProvider(noop.NewTracerProvider())
}

// Tracer returns the tracer of a game component such as "control" or
// "planet".
func Tracer(component string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerPrefix + component)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerPrefix + "noop")
}

// Start opens the named span on tracer with attrs.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Fail records err on span and marks it failed. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
