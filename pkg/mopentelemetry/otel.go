package mopentelemetry

import (
	"context"
	"encoding/json"

	"github.com/openledgerhq/transfer-engine/pkg/mlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry holds the tracing configuration and the initialized providers.
type Telemetry struct {
	LibraryName               string
	ServiceName               string
	ServiceVersion            string
	DeploymentEnv             string
	CollectorExporterEndpoint string
	EnableTelemetry           bool
	TracerProvider            *sdktrace.TracerProvider
	shutdown                  func()
}

// newResource creates a new resource with default attributes.
func (tl *Telemetry) newResource() (*sdkresource.Resource, error) {
	r, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(tl.ServiceName),
			semconv.ServiceVersion(tl.ServiceVersion),
			semconv.DeploymentEnvironment(tl.DeploymentEnv)),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// InitializeTelemetry sets the global tracer provider. When telemetry is disabled the
// provider exports nothing and span creation is effectively free.
func (tl *Telemetry) InitializeTelemetry(logger mlog.Logger) {
	ctx := context.Background()

	if !tl.EnableTelemetry {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		tl.TracerProvider = tp
		tl.shutdown = func() {}

		return
	}

	r, err := tl.newResource()
	if err != nil {
		logger.Fatalf("can't initialize telemetry resource: %v", err)
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(tl.CollectorExporterEndpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		logger.Fatalf("can't initialize otlp trace exporter: %v", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	tl.TracerProvider = tp
	tl.shutdown = func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Errorf("can't shutdown trace provider: %v", err)
		}

		if err := exp.Shutdown(ctx); err != nil {
			logger.Errorf("can't shutdown trace exporter: %v", err)
		}
	}
}

// ShutdownTelemetry flushes and releases the providers started by InitializeTelemetry.
func (tl *Telemetry) ShutdownTelemetry() {
	if tl.shutdown != nil {
		tl.shutdown()
	}
}

// Tracer returns a tracer from the configured provider.
//
//nolint:ireturn
func (tl *Telemetry) Tracer() trace.Tracer {
	return otel.Tracer(tl.LibraryName)
}

// HandleSpanError records the error on the span and flags its status.
func HandleSpanError(span *trace.Span, message string, err error) {
	(*span).RecordError(err)
	(*span).SetStatus(codes.Error, message+": "+err.Error())
}

// SetSpanAttributesFromStruct serializes the given struct and attaches it to the span
// under the provided key.
func SetSpanAttributesFromStruct(span *trace.Span, key string, valueStruct any) error {
	vStr, err := json.Marshal(valueStruct)
	if err != nil {
		return err
	}

	(*span).SetAttributes(attribute.String(key, string(vStr)))

	return nil
}
