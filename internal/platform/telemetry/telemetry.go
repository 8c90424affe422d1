// Package telemetry wires OpenTelemetry tracing and metrics for the
// scorebook service and owns the metric instruments its layers record into.
//
//	p, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer p.Shutdown(ctx)
//	p.Metrics.CommandTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrCommand.String("undo")))
//
// With telemetry disabled Setup installs nothing and p.Metrics is nil; every
// consumer treats nil metrics as "don't record".
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/jsamuelsen11/scorebook/internal/platform/config"
)

const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// InstrumentationName scopes tracers and meters created by this module.
const InstrumentationName = "github.com/jsamuelsen11/scorebook"

// Metric label keys.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrCommand     = attribute.Key("scorebook.command")
	AttrProblem     = attribute.Key("scorebook.problem")
	AttrOperation   = attribute.Key("scorebook.operation")
)

// Metrics holds the instruments shared by the HTTP edge, the webhook client,
// the scorekeeper and the workflow runner.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	CommandTotal     metric.Int64Counter
	CommandDuration  metric.Float64Histogram
	WorkflowAttempts metric.Int64Counter
}

// Providers owns the SDK providers installed by Setup.
type Providers struct {
	Metrics *Metrics

	shutdowns []func(context.Context) error
}

// Shutdown flushes pending spans and metric readings. It is safe on a nil
// or disabled Providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		if err := p.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Setup installs global tracer and meter providers for cfg and registers
// the metric instruments. On failure anything already started is shut down.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}

	tp, err := InitTracer(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	p.shutdowns = append(p.shutdowns, tp.Shutdown)

	mp, err := InitMeter(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	p.shutdowns = append(p.shutdowns, mp.Shutdown)

	if p.Metrics, err = NewMetrics(mp, cfg.ServiceName); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	return p, nil
}

// InitTracer registers a global TracerProvider exporting to stdout or to an
// OTLP/HTTP collector, plus W3C trace-context and baggage propagation.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := target(serviceName, exporter, endpoint)
	if err != nil {
		return nil, err
	}

	var spans sdktrace.SpanExporter
	switch exporter {
	case ExporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		spans, err = otlptracehttp.New(ctx, opts...)
	default:
		spans, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter registers a global MeterProvider with a periodic reader on the
// chosen exporter.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := target(serviceName, exporter, endpoint)
	if err != nil {
		return nil, err
	}

	var readings sdkmetric.Exporter
	switch exporter {
	case ExporterOTLP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		readings, err = otlpmetrichttp.New(ctx, opts...)
	default:
		readings, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(readings)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMetrics registers every instrument on mp. Instrument errors are joined
// so a misconfigured provider reports all of them at once.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(InstrumentationName,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)))

	var errs []error
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}
	histogram := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}

	m := &Metrics{
		ServerRequestDuration: histogram("http.server.request.duration", "Duration of incoming HTTP requests"),
		ServerRequestTotal:    counter("http.server.request.total", "Incoming HTTP requests", "{request}"),
		ClientRequestDuration: histogram("http.client.request.duration", "Duration of outgoing webhook requests"),
		ClientRequestTotal:    counter("http.client.request.total", "Outgoing webhook requests", "{request}"),
		CommandTotal:          counter("scorebook.command.total", "Scoring commands handled", "{command}"),
		CommandDuration:       histogram("scorebook.command.duration", "Duration of scoring commands including persistence"),
		WorkflowAttempts:      counter("scorebook.workflow.attempts", "Attempts made by workflow retries", "{attempt}"),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// target checks the exporter choice and builds the service resource.
func target(serviceName, exporter, endpoint string) (*resource.Resource, error) {
	switch exporter {
	case ExporterStdout:
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return res, nil
}

// hostPort strips the scheme: "http://otel-collector:4318" becomes
// "otel-collector:4318".
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && u.Scheme == "https"
}
