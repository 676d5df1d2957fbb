package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in db.statement (dev only)
	SlowQueryThresh time.Duration
	DBSystem        string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

// DBTracingConfigFrom derives the plugin configuration from telemetry settings
func DBTracingConfigFrom(cfg config.TelemetryConfig) DBTracingConfig {
	out := DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:      cfg.DBLogFullSQL,
		SlowQueryThresh: cfg.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}
	if out.SlowQueryThresh <= 0 {
		out.SlowQueryThresh = 200 * time.Millisecond
	}
	return out
}

// DBTracingPlugin registers otelgorm plus slow query and error annotation
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// Register installs the otelgorm plugin and the timing callbacks on db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// annotate must run while the otelgorm span is still open
	cb := db.Callback()
	regs := []error{
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", markStart),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", markStart),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("otel_timing:after_create", p.annotate),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("otel_timing:after_query", p.annotate),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("otel_timing:after_update", p.annotate),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("otel_timing:after_delete", p.annotate),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("otel_timing:after_row", p.annotate),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("otel_timing:after_raw", p.annotate),
	}
	if err := errors.Join(regs...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
		p.logger.Warn("Slow query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed))
	}
}
