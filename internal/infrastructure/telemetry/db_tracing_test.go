package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.True(t, cfg.WithoutVariables)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db := openTracingTestDB(t)
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.Nil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
	})

	t.Run("enabled config registers timing and slow query callbacks", func(t *testing.T) {
		db := openTracingTestDB(t)
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())

		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.NotNil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.NotNil(t, db.Callback().Create().Get("otel_timing:before_create"))
		assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))
		assert.NotNil(t, db.Callback().Update().Get("otel_slow_query:update"))
	})
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}

func TestDBTracingCallback(t *testing.T) {
	t.Run("registers before and after callbacks", func(t *testing.T) {
		db := openTracingTestDB(t)
		cb := NewDBTracingCallback(200 * time.Millisecond)

		require.NoError(t, cb.RegisterCallbacks(db))

		assert.NotNil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.NotNil(t, db.Callback().Query().Get("otel_timing:after_query"))
	})

	t.Run("marks slow queries on the active span", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		ctx, span := tp.Tracer("test").Start(context.Background(), "db.query")
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

		db := openTracingTestDB(t)
		db.Statement.Context = ctx
		db.Statement.Table = "deals"

		cb := NewDBTracingCallback(50 * time.Millisecond)
		cb.AfterCallback(db)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)

		attrs := spans[0].Attributes()
		slow, ok := spanAttr(attrs, "db.slow_query")
		require.True(t, ok)
		assert.True(t, slow.AsBool())

		table, ok := spanAttr(attrs, "db.sql.table")
		require.True(t, ok)
		assert.Equal(t, "deals", table.AsString())

		require.NotEmpty(t, spans[0].Events())
		assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
	})

	t.Run("fast query leaves the span unmarked", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		ctx, span := tp.Tracer("test").Start(context.Background(), "db.query")
		ctx = WithQueryStartTime(ctx)

		db := openTracingTestDB(t)
		db.Statement.Context = ctx

		cb := NewDBTracingCallback(time.Minute)
		cb.AfterCallback(db)
		span.End()

		attrs := sr.Ended()[0].Attributes()
		_, ok := spanAttr(attrs, "db.slow_query")
		assert.False(t, ok)
	})
}

func spanAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}
