package cli

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/lintcfg/pkg/version"
)

// EnvOTLPEndpoint enables trace export when set.
const EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"

// SetupTracing installs an OTLP gRPC trace exporter when [EnvOTLPEndpoint]
// is set. The exporter reads the remaining OTEL_EXPORTER_OTLP_* variables
// itself. The returned function flushes and stops the exporter; it is a no-op
// when tracing is disabled.
func SetupTracing(ctx context.Context) (func(context.Context) error, error) {
	if os.Getenv(EnvOTLPEndpoint) == "" {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cmdName),
			attribute.String("service.version", version.GetVersion()),
		)),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
