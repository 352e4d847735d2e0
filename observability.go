package userstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/arllen133/userstore"

// Metrics holds the OpenTelemetry instruments.
type Metrics struct {
	QueryCount    metric.Int64Counter
	QueryDuration metric.Float64Histogram
	QueryErrors   metric.Int64Counter
}

// ObservabilityConfig holds logging, tracing and metrics settings.
type ObservabilityConfig struct {
	Logger             *slog.Logger
	Tracer             trace.Tracer
	Meter              metric.Meter
	Metrics            *Metrics
	SlowQueryThreshold time.Duration
	LogQueries         bool // log every statement at debug level
}

func defaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{SlowQueryThreshold: 200 * time.Millisecond}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.obs.Logger = logger }
}

func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) { s.obs.Tracer = tracer }
}

// WithDefaultTracer uses the global tracer provider.
func WithDefaultTracer() SessionOption {
	return WithTracer(otel.Tracer(instrumentationName))
}

func WithMeter(meter metric.Meter) SessionOption {
	return func(s *Session) {
		s.obs.Meter = meter
		s.obs.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global meter provider.
func WithDefaultMeter() SessionOption {
	return WithMeter(otel.Meter(instrumentationName))
}

func WithSlowQueryThreshold(d time.Duration) SessionOption {
	return func(s *Session) { s.obs.SlowQueryThreshold = d }
}

func WithQueryLogging(enabled bool) SessionOption {
	return func(s *Session) { s.obs.LogQueries = enabled }
}

func initMetrics(meter metric.Meter) *Metrics {
	queryCount, _ := meter.Int64Counter("userstore.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)
	queryDuration, _ := meter.Float64Histogram("userstore.query.duration",
		metric.WithDescription("Statement duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000),
	)
	queryErrors, _ := meter.Int64Counter("userstore.query.errors",
		metric.WithDescription("Total number of failed SQL statements"),
		metric.WithUnit("{error}"),
	)
	return &Metrics{
		QueryCount:    queryCount,
		QueryDuration: queryDuration,
		QueryErrors:   queryErrors,
	}
}

// spanWrapper tolerates a nil span so callers need not check.
type spanWrapper struct {
	span trace.Span
}

func (w spanWrapper) End() {
	if w.span != nil {
		w.span.End()
	}
}

func (w spanWrapper) fail(err error) {
	if w.span != nil {
		w.span.RecordError(err)
		w.span.SetStatus(codes.Error, err.Error())
	}
}

func (s *Session) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, spanWrapper) {
	if s.obs.Tracer == nil {
		return ctx, spanWrapper{}
	}
	ctx, span := s.obs.Tracer.Start(ctx, name, opts...)
	return ctx, spanWrapper{span}
}

// instrument runs one statement with tracing, metrics and logging. It is the
// single gate that rejects work on a closed session.
func (s *Session) instrument(ctx context.Context, operation, query string, fn func(context.Context) error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	ctx, span := s.startSpan(ctx, "userstore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.statement", query),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	// A missing row is an answer, not a failure.
	logErr := err
	if errors.Is(err, sql.ErrNoRows) {
		logErr = nil
	}
	if logErr != nil {
		span.fail(logErr)
	}
	s.recordMetrics(ctx, operation, duration, logErr != nil)
	s.logQuery(ctx, operation, query, duration, logErr)
	return err
}

func (s *Session) recordMetrics(ctx context.Context, operation string, duration time.Duration, failed bool) {
	if s.obs.Metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.driver", s.dialect.DriverName()),
	)
	s.obs.Metrics.QueryCount.Add(ctx, 1, attrs)
	s.obs.Metrics.QueryDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if failed {
		s.obs.Metrics.QueryErrors.Add(ctx, 1, attrs)
	}
}

func (s *Session) logQuery(ctx context.Context, operation, query string, duration time.Duration, err error) {
	if s.obs.Logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
	}
	if s.obs.LogQueries {
		attrs = append(attrs, slog.String("query", query))
	}
	switch {
	case err != nil:
		s.obs.Logger.LogAttrs(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
	case s.obs.SlowQueryThreshold > 0 && duration > s.obs.SlowQueryThreshold:
		s.obs.Logger.LogAttrs(ctx, slog.LevelWarn, "slow query", attrs...)
	case s.obs.LogQueries:
		s.obs.Logger.LogAttrs(ctx, slog.LevelDebug, "query executed", attrs...)
	}
}

func (s *Session) logRollbackFailure(ctx context.Context, err error) {
	if s.obs.Logger == nil || errors.Is(err, sql.ErrTxDone) {
		return
	}
	s.obs.Logger.LogAttrs(ctx, slog.LevelError, "rollback failed", slog.String("error", err.Error()))
}
