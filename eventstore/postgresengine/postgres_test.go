package postgresengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/enginetest"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/spies"
)

const dsnEnv = "POSTGRES_TEST_DSN"

func testDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	return dsn
}

// freshTable returns a table name that is unique for this test, so tests never share rows.
func freshTable() string {
	return "events_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func dropTable(t *testing.T, exec func(ctx context.Context, sql string) error, table string) {
	t.Cleanup(func() {
		_ = exec(context.Background(), fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table))
	})
}

func newPGXEngine(t *testing.T, options ...postgresengine.Option) *postgresengine.EventStore {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), testDSN(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	table := freshTable()
	engine, err := postgresengine.NewEventStoreFromPGXPool(pool, append(options, postgresengine.WithTableName(table))...)
	require.NoError(t, err)
	require.NoError(t, engine.EnsureSchema(context.Background()))
	dropTable(t, func(ctx context.Context, sql string) error { _, err := pool.Exec(ctx, sql); return err }, table)

	return engine
}

func newSQLEngine(t *testing.T) *postgresengine.EventStore {
	t.Helper()

	db, err := sql.Open("postgres", testDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	table := freshTable()
	engine, err := postgresengine.NewEventStoreFromSQLDB(db, postgresengine.WithTableName(table))
	require.NoError(t, err)
	require.NoError(t, engine.EnsureSchema(context.Background()))
	dropTable(t, func(ctx context.Context, sql string) error { _, err := db.ExecContext(ctx, sql); return err }, table)

	return engine
}

func newSQLXEngine(t *testing.T) *postgresengine.EventStore {
	t.Helper()

	db, err := sqlx.Open("postgres", testDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	table := freshTable()
	engine, err := postgresengine.NewEventStoreFromSQLX(db, postgresengine.WithTableName(table))
	require.NoError(t, err)
	require.NoError(t, engine.EnsureSchema(context.Background()))
	dropTable(t, func(ctx context.Context, sql string) error { _, err := db.ExecContext(ctx, sql); return err }, table)

	return engine
}

func Test_EngineContract_PGX(t *testing.T) {
	testDSN(t)
	enginetest.RunContract(t, func(t *testing.T) eventstore.Engine { return newPGXEngine(t) })
}

func Test_EngineContract_SQL(t *testing.T) {
	testDSN(t)
	enginetest.RunContract(t, func(t *testing.T) eventstore.Engine { return newSQLEngine(t) })
}

func Test_EngineContract_SQLX(t *testing.T) {
	testDSN(t)
	enginetest.RunContract(t, func(t *testing.T) eventstore.Engine { return newSQLXEngine(t) })
}

func Test_CurrentVersion(t *testing.T) {
	ctx := context.Background()
	engine := newPGXEngine(t)
	streamID := uuid.New()

	version, err := engine.CurrentVersion(ctx, streamID)
	require.NoError(t, err)
	assert.Equal(t, eventstore.StreamVersionUint(0), version)

	require.NoError(t, engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "A"), enginetest.StorableEvent(t, "B")))

	version, err = engine.CurrentVersion(ctx, streamID)
	require.NoError(t, err)
	assert.Equal(t, eventstore.StreamVersionUint(2), version)
}

func Test_ReadStream_When_ContextIsCanceled_Then_QueryingFails(t *testing.T) {
	engine := newPGXEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.ReadStream(ctx, uuid.New(), 0)

	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
}

func Test_ReadStream_WithEventualConsistency_WorksWithoutReplica(t *testing.T) {
	ctx := eventstore.WithEventualConsistency(context.Background())
	engine := newPGXEngine(t)
	streamID := uuid.New()
	require.NoError(t, engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "A")))

	events, err := engine.ReadStream(ctx, streamID, 0)

	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func Test_Observability_RecordsConflictsAndSQL(t *testing.T) {
	// arrange
	logSpy := spies.NewLogHandlerSpy(false)
	metricsSpy := spies.NewMetricsCollectorSpy()
	tracingSpy := spies.NewTracingCollectorSpy()
	engine := newPGXEngine(t,
		postgresengine.WithLogger(slog.New(logSpy)),
		postgresengine.WithMetrics(metricsSpy),
		postgresengine.WithTracing(tracingSpy),
	)
	ctx := context.Background()
	streamID := uuid.New()

	// act
	require.NoError(t, engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "A")))
	err := engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "B"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, metricsSpy.HasCounter("eventstore_concurrency_conflicts_total", map[string]string{"engine": "postgres"}))
	assert.True(t, logSpy.HasLogWithPrefix(slog.LevelDebug, "executed statement for: append"))

	span, found := tracingSpy.FindSpan("eventstore.append")
	require.True(t, found)
	assert.Equal(t, "A", span.StartAttributes["event_type"])
}
