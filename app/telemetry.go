package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const serviceName = "ammd"

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	Enabled bool
	// OTLPEndpoint is the OTLP/HTTP collector; tracing is off when empty.
	OTLPEndpoint string
	SampleRate   float64
}

// Telemetry manages OpenTelemetry tracing and metrics
type Telemetry struct {
	config    TelemetryConfig
	shutdowns []func(context.Context) error
}

// InitTelemetry initializes OpenTelemetry tracing and metrics. When disabled
// the global no-op providers stay in place.
func InitTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	tel := &Telemetry{config: cfg}
	if !cfg.Enabled {
		return tel, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("chain.id", ChainID),
		),
	)
	if err != nil {
		return nil, err
	}

	if cfg.OTLPEndpoint != "" {
		if err := tel.initTracing(res); err != nil {
			return nil, err
		}
	}
	if err := tel.initMetrics(res); err != nil {
		return nil, err
	}

	return tel, nil
}

// initTracing sets up OTLP/HTTP tracing
func (t *Telemetry) initTracing(res *resource.Resource) error {
	if _, err := url.Parse(t.config.OTLPEndpoint); err != nil {
		return err
	}

	endpoint := strings.TrimPrefix(t.config.OTLPEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(
			trace.TraceIDRatioBased(t.config.SampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	t.shutdowns = append(t.shutdowns, tp.Shutdown)
	return nil
}

// initMetrics exports OpenTelemetry metrics through the default Prometheus
// registry, next to the module's own collectors.
func (t *Telemetry) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return err
	}

	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)
	t.shutdowns = append(t.shutdowns, provider.Shutdown)
	return nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	for _, shutdown := range t.shutdowns {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// CommandTelemetry records per-command metrics on the global meter.
type CommandTelemetry struct {
	commands    metric.Int64Counter
	duration    metric.Float64Histogram
	blockHeight metric.Int64Gauge
}

// NewCommandTelemetry creates the command instruments on meter.
func NewCommandTelemetry(meter metric.Meter) (*CommandTelemetry, error) {
	commands, err := meter.Int64Counter(
		"ammd.command.total",
		metric.WithDescription("Total number of state-changing commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"ammd.command.processing_time",
		metric.WithDescription("Command processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	blockHeight, err := meter.Int64Gauge(
		"ammd.block.height",
		metric.WithDescription("Last committed height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	return &CommandTelemetry{
		commands:    commands,
		duration:    duration,
		blockHeight: blockHeight,
	}, nil
}

// DefaultCommandTelemetry creates the command instruments on the global
// meter provider.
func DefaultCommandTelemetry() (*CommandTelemetry, error) {
	return NewCommandTelemetry(otel.GetMeterProvider().Meter(serviceName))
}

// RecordCommand records the outcome and duration of a command.
func (ct *CommandTelemetry) RecordCommand(ctx context.Context, command string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}

	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	ct.commands.Add(ctx, 1, attrs)
	ct.duration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordBlockHeight records the last committed height.
func (ct *CommandTelemetry) RecordBlockHeight(ctx context.Context, height int64) {
	ct.blockHeight.Record(ctx, height)
}

// TraceCommand starts a span for a command. The returned func ends it,
// marking the span failed when err is non-nil.
func TraceCommand(ctx context.Context, command string) (context.Context, func(err error)) {
	tracer := otel.Tracer(serviceName)
	ctx, span := tracer.Start(ctx, "command.execute")
	span.SetAttributes(attribute.String("command", command))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
