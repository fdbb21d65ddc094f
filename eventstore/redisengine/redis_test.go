package redisengine_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/redisengine"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/enginetest"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/spies"
)

const addrEnv = "REDIS_TEST_ADDR"

func newClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv(addrEnv)
	if addr == "" {
		t.Skipf("%s is not set", addrEnv)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// newEngine returns an engine with a key prefix unique to the test, and removes its keys afterwards.
func newEngine(t *testing.T, options ...redisengine.Option) *redisengine.EventStore {
	t.Helper()

	client := newClient(t)
	prefix := "eventstore-test:" + uuid.NewString() + ":"

	engine, err := redisengine.NewEventStore(client, append(options, redisengine.WithKeyPrefix(prefix))...)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
	})

	return engine
}

func Test_NewEventStore_When_ClientIsNil_Then_ItFails(t *testing.T) {
	_, err := redisengine.NewEventStore(nil)

	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)
}

func Test_NewEventStore_When_KeyPrefixIsEmpty_Then_ItFails(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()

	_, err := redisengine.NewEventStore(client, redisengine.WithKeyPrefix(""))

	assert.ErrorIs(t, err, eventstore.ErrEmptyKeyPrefix)
}

func Test_StreamKey_UsesPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer func() { _ = client.Close() }()
	engine, err := redisengine.NewEventStore(client)
	require.NoError(t, err)
	streamID := uuid.New()

	assert.Equal(t, redisengine.DefaultKeyPrefix+streamID.String(), engine.StreamKey(streamID))
}

func Test_EngineContract(t *testing.T) {
	newClient(t)
	enginetest.RunContract(t, func(t *testing.T) eventstore.Engine { return newEngine(t) })
}

func Test_CurrentVersion_FollowsAppends(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	streamID := uuid.New()

	require.NoError(t, engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "A"), enginetest.StorableEvent(t, "B")))

	version, err := engine.CurrentVersion(ctx, streamID)
	require.NoError(t, err)
	assert.Equal(t, eventstore.StreamVersionUint(2), version)
}

func Test_Conflict_IsReportedWithActualVersion(t *testing.T) {
	// arrange
	tracingSpy := spies.NewTracingCollectorSpy()
	metricsSpy := spies.NewMetricsCollectorSpy()
	engine := newEngine(t, redisengine.WithTracing(tracingSpy), redisengine.WithMetrics(metricsSpy))
	ctx := context.Background()
	streamID := uuid.New()
	require.NoError(t, engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "A")))

	// act
	err := engine.AppendToStream(ctx, streamID, 0, enginetest.StorableEvent(t, "B"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, metricsSpy.HasCounter("eventstore_concurrency_conflicts_total", map[string]string{"engine": "redis"}))

	spans := tracingSpy.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, "conflict", spans[1].Status)
	assert.Equal(t, "1", spans[1].EndAttributes["actual_version"])
}
