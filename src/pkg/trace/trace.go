package trace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var logger = log.WithField("package", "trace")

const (
	PerformanceReportFileName = "performance-report.json"
	tracerName                = "github.com/gh-nvat/hava-export"
)

// InitTracer installs the global tracer provider.
// When enabled, finished spans are written as JSON to <outputDir>/performance-report.json,
// otherwise a no-op provider stays in place. The returned function flushes and closes the exporter.
func InitTracer(serviceName string, enabled bool, outputDir string) (func(), error) {
	if !enabled {
		logger.Debug("InitTracer: performance report disabled")
		return func() {}, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	reportPath := filepath.Join(outputDir, PerformanceReportFileName)
	f, err := os.Create(reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create performance report file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(semconv.ServiceName(serviceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	logger.WithField("file", reportPath).Info("Performance report enabled")

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithField("error", err).Warn("Failed to shutdown tracer provider")
		}
		if err := f.Close(); err != nil {
			logger.WithField("error", err).Warn("Failed to close performance report file")
		}
	}, nil
}

// StartSpan starts a span named name as a child of any span in ctx
func StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}
