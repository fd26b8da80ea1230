// Package telemetry exports request traces over OTLP when an endpoint is
// configured.
package telemetry

import (
	"context"

	"github.com/yeremiapane/restaurant-biller/config"
	"github.com/yeremiapane/restaurant-biller/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const ServiceName = "restaurant-biller"

// Setup installs the global tracer provider and returns its shutdown func.
// Without an endpoint, or if the exporter cannot be built, it returns a
// no-op and the app runs untraced.
func Setup(ctx context.Context, cfg *config.Config) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if cfg.OTLPEndpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("otel exporter unavailable, tracing disabled")
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(ServiceName),
		semconv.DeploymentEnvironment(cfg.Env),
	))
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("otel resource incomplete")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	utils.InfoLogger.WithField("endpoint", cfg.OTLPEndpoint).Info("tracing enabled")

	return provider.Shutdown
}
