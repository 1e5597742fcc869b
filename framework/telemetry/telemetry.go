package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Config struct {
	ServiceName  string
	EnableTraces bool

	// Writer receives exported spans, stderr when nil
	Writer io.Writer
}

// Provider owns the tracer provider registered as the global one.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	shutdownOnce   sync.Once
}

// Setup registers a stdout span exporter when traces are enabled. Otherwise global tracer stays a no-op.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.EnableTraces {
		return &Provider{}, nil
	}

	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = "danser-reading"
	}

	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Writer), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("init stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithMaxExportBatchSize(64)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return &Provider{tracerProvider: tp}, nil
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var err error

	p.shutdownOnce.Do(func() {
		if p.tracerProvider != nil {
			err = p.tracerProvider.Shutdown(ctx)
		}
	})

	return err
}
