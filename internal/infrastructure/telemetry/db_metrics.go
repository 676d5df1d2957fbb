package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbMetricsStartKey contextKey = "db_metrics_start_time"

// DBMetrics records query counts, latency and slow queries, and observes
// the connection pool on every collection cycle.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	slowThreshold  time.Duration
	registration   metric.Registration
	logger         *zap.Logger
}

// NewDBMetrics creates the instruments; pool gauges are read from sqlDB
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	queryTotal, err := NewCounter(meter, "db_query_total", "Database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db_slow_query_total", "Queries slower than the threshold by table", "{query}")
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		slowQueryTotal: slowQueryTotal,
		slowThreshold:  slowThreshold,
		logger:         logger,
	}

	if sqlDB != nil {
		conns, err := meter.Int64ObservableGauge("db_pool_connections",
			metric.WithDescription("Connections in the pool by state"),
			metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
			metric.WithDescription("Maximum open connections"),
			metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			stats := sqlDB.Stats()
			o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
			o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
			o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
			o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
			return nil
		}, conns, maxConns)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordQuery records one finished statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, d time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, d, AttrDBOperation.String(operation))
	if d > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Stop unregisters the pool callback
func (m *DBMetrics) Stop() {
	if m.registration != nil {
		if err := m.registration.Unregister(); err != nil {
			m.logger.Warn("Failed to unregister pool metrics", zap.Error(err))
		}
	}
}

// Register installs the timing callbacks on db
func (m *DBMetrics) Register(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, dbMetricsStartKey, time.Now())
		}
	}
	after := func(op string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			ctx := db.Statement.Context
			if ctx == nil {
				return
			}
			start, ok := ctx.Value(dbMetricsStartKey).(time.Time)
			if !ok {
				return
			}
			name := op
			if name == "" {
				name = operationFromSQL(db.Statement.SQL.String())
			}
			m.RecordQuery(ctx, name, db.Statement.Table, time.Since(start))
		}
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("db_metrics:before_create", before),
		cb.Query().Before("gorm:query").Register("db_metrics:before_query", before),
		cb.Update().Before("gorm:update").Register("db_metrics:before_update", before),
		cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", before),
		cb.Row().Before("gorm:row").Register("db_metrics:before_row", before),
		cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", before),
		cb.Create().After("gorm:create").Register("db_metrics:after_create", after("INSERT")),
		cb.Query().After("gorm:query").Register("db_metrics:after_query", after("SELECT")),
		cb.Update().After("gorm:update").Register("db_metrics:after_update", after("UPDATE")),
		cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", after("DELETE")),
		cb.Row().After("gorm:row").Register("db_metrics:after_row", after("")),
		cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", after("")),
	)
}

func operationFromSQL(stmt string) string {
	stmt = strings.ToUpper(strings.TrimSpace(stmt))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(stmt, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics wires query and pool metrics onto db when metrics are exported
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, slowThreshold, logger)
	if err != nil {
		return nil, err
	}
	if err := m.Register(db); err != nil {
		m.Stop()
		return nil, err
	}
	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.slowThreshold))
	return m, nil
}
