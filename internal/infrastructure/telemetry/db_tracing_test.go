package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRack struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:50"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRack{}))

	sr := tracetest.NewSpanRecorder()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))
	return db, sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDBTracingConfigFrom(t *testing.T) {
	cfg := DBTracingConfigFrom(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true})
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)

	cfg = DBTracingConfigFrom(config.TelemetryConfig{Enabled: false, DBTraceEnabled: true})
	assert.False(t, cfg.Enabled, "db tracing requires telemetry")
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop()).Register(db))
	assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	db, sr := setupTracedDB(t, DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour, DBSystem: "sqlite"})

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRack{Code: "R-01"}).Error)
	assert.NotEmpty(t, sr.Ended())
}

func TestDBTracingPlugin_Annotate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRack{}))

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	ctx, span := tp.Tracer("test").Start(context.Background(), "rack.lookup")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

	tx := db.WithContext(ctx).Table("traced_racks").Where("code = ?", "missing").Find(&[]tracedRack{})
	tx.Error = assert.AnError

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 100 * time.Millisecond}, zap.NewNop())
	p.annotate(tx)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, codes.Error, got.Status().Code)

	slow, ok := spanAttr(got, "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
	table, ok := spanAttr(got, "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "traced_racks", table.AsString())

	var names []string
	for _, ev := range got.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "slow_query_warning")
}
