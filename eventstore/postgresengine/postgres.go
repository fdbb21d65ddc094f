package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/internal/observe"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/postgresengine/internal/adapters"
)

const (
	engineName               = "postgres"
	defaultEventTableName    = "events"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgReadVersionFailed  = "failed to read the current stream version after a conflict"
	logMsgSchemaEnsured      = "events table ensured"
	logMsgEnsureSchemaFailed = "failed to ensure the events table"
	logMsgRowsAffectedShort  = "append inserted fewer rows than events"
	logAttrTable             = "table"
	logAttrExpectedEvents    = "expected_events"
	logAttrRowsAffected      = "rows_affected"
)

// ErrEnsuringSchemaFailed is returned when the events table cannot be created.
var ErrEnsuringSchemaFailed = errors.New("ensuring the events table failed")

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// EventStore is a PostgreSQL implementation of eventstore.Engine.
//
// All streams share one table. A stream is the set of rows with the same stream_id, ordered by stream_version.
// It is safe for concurrent use.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	obs            observe.Instruments
}

type queryResultRow struct {
	streamVersion int64
	eventType     string
	occurredAt    time.Time
	payload       []byte
	metadata      []byte
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore that writes to db and may serve
// reads from replica when the context asks for eventual consistency.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLDBAndReplica is the database/sql variant of NewEventStoreFromPGXPoolAndReplica.
func NewEventStoreFromSQLDBAndReplica(db *sql.DB, replica *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

// NewEventStoreFromSQLXAndReplica is the sqlx variant of NewEventStoreFromPGXPoolAndReplica.
func NewEventStoreFromSQLXAndReplica(db *sqlx.DB, replica *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapterWithReplica(db, replica), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		obs:            observe.Instruments{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// EnsureSchema creates the events table and its indexes if they do not exist yet.
func (es *EventStore) EnsureSchema(ctx context.Context) error {
	for _, statement := range SchemaStatements(es.eventTableName) {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.obs.Error(ctx, logMsgEnsureSchemaFailed, err, logAttrTable, es.eventTableName)
			return errors.Join(ErrEnsuringSchemaFailed, err)
		}
	}

	es.obs.Info(ctx, logMsgSchemaEnsured, logAttrTable, es.eventTableName)

	return nil
}

// ReadStream returns the events of streamID after fromVersion in stream order.
func (es *EventStore) ReadStream(
	ctx context.Context,
	streamID uuid.UUID,
	fromVersion eventstore.StreamVersionUint,
) (eventstore.StorableEvents, error) {

	var empty eventstore.StorableEvents

	op, ctx := es.obs.Start(ctx, observe.OperationRead, streamID, nil)

	sqlQuery, buildQueryErr := es.buildSelectQuery(streamID, fromVersion)
	if buildQueryErr != nil {
		op.Fail(observe.ErrorTypeBuildQuery, buildQueryErr)
		return empty, buildQueryErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
	op.Statement(sqlQuery)
	if queryErr != nil {
		op.Fail(observe.ErrorTypeQuery, queryErr, observe.AttrQuery, sqlQuery)
		return empty, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	stream, errorType, scanErr := es.processQueryResults(streamID, rows)
	if scanErr != nil {
		op.Fail(errorType, scanErr)
		return empty, scanErr
	}

	op.Succeed(len(stream))

	return stream, nil
}

// closeRows safely closes database rows and logs any errors.
func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.obs.Warn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// processQueryResults converts database rows to storable events placed at their stream position.
func (es *EventStore) processQueryResults(streamID uuid.UUID, rows adapters.DBRows) (
	eventstore.StorableEvents,
	string,
	error,
) {

	result := queryResultRow{}
	stream := make(eventstore.StorableEvents, 0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.streamVersion, &result.eventType, &result.occurredAt, &result.payload, &result.metadata)
		if rowScanErr != nil {
			return nil, observe.ErrorTypeScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			return nil, observe.ErrorTypeBuildStorable, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		stream = append(stream, event.AtPosition(streamID, eventstore.StreamVersionUint(result.streamVersion)))
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, observe.ErrorTypeScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	return stream, "", nil
}

// AppendToStream appends one or multiple events onto the stream of streamID if it currently holds
// exactly expectedVersion events.
//
// The insert query to append multiple events atomically is heavier than the one built to append a single event.
// Saving an aggregate appends all staged events of one entity in a single call, which is usually one event.
func (es *EventStore) AppendToStream(
	ctx context.Context,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	op, ctx := es.obs.Start(ctx, observe.OperationAppend, streamID, map[string]string{
		observe.AttrEventType: event.EventType,
	})

	if streamID == uuid.Nil {
		op.Fail(observe.ErrorTypeInvalidRequest, eventstore.ErrNilStreamID)
		return eventstore.ErrNilStreamID
	}

	sqlQuery, buildQueryErr := es.buildAppendQuery(allEvents, streamID, expectedVersion)
	if buildQueryErr != nil {
		op.Fail(observe.ErrorTypeBuildQuery, buildQueryErr, observe.AttrEventCount, len(allEvents))
		return buildQueryErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery)
	op.Statement(sqlQuery)
	if execErr != nil {
		if adapters.IsUniqueViolation(execErr) {
			op.Conflict(expectedVersion, es.currentVersionForReport(ctx, streamID))
			return eventstore.ErrConcurrencyConflict
		}

		op.Fail(observe.ErrorTypeExec, execErr, observe.AttrQuery, sqlQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		op.Fail(observe.ErrorTypeRowsAffected, rowsAffectedErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < rowsAffectedInt64(len(allEvents)) {
		op.Conflict(expectedVersion, es.currentVersionForReport(ctx, streamID))
		es.obs.Debug(ctx, logMsgRowsAffectedShort, logAttrExpectedEvents, len(allEvents), logAttrRowsAffected, rowsAffected)

		return eventstore.ErrConcurrencyConflict
	}

	op.Succeed(len(allEvents))

	return nil
}

// CurrentVersion returns the number of events in the stream of streamID.
func (es *EventStore) CurrentVersion(ctx context.Context, streamID uuid.UUID) (eventstore.StreamVersionUint, error) {
	sqlQuery, buildQueryErr := es.buildCurrentVersionQuery(streamID)
	if buildQueryErr != nil {
		return 0, buildQueryErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
	if queryErr != nil {
		return 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	var version int64
	if rows.Next() {
		if scanErr := rows.Scan(&version); scanErr != nil {
			return 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	return eventstore.StreamVersionUint(version), nil
}

// currentVersionForReport is CurrentVersion for conflict logging, where a failed lookup must not mask the conflict.
func (es *EventStore) currentVersionForReport(ctx context.Context, streamID uuid.UUID) eventstore.StreamVersionUint {
	version, err := es.CurrentVersion(ctx, streamID)
	if err != nil {
		es.obs.Warn(ctx, logMsgReadVersionFailed, err, observe.AttrStreamID, streamID.String())
	}

	return version
}
