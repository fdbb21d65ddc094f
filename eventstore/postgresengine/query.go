package postgresengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

const (
	colSequenceNumber = "sequence_number"
	colStreamID       = "stream_id"
	colStreamVersion  = "stream_version"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxVersion   = "max_version"
	castUUID          = "?::uuid"
	castBigint        = "?::bigint"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
)

func (es *EventStore) buildSelectQuery(
	streamID uuid.UUID,
	fromVersion eventstore.StreamVersionUint,
) (sqlQueryString, error) {

	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colStreamVersion, colEventType, colOccurredAt, colPayload, colMetadata).
		Where(
			goqu.C(colStreamID).Eq(goqu.L(castUUID, streamID.String())),
			goqu.C(colStreamVersion).Gt(fromVersion),
		).
		Order(goqu.I(colStreamVersion).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildCurrentVersionQuery(streamID uuid.UUID) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(goqu.COALESCE(goqu.MAX(colStreamVersion), 0).As(aliasMaxVersion)).
		Where(goqu.C(colStreamID).Eq(goqu.L(castUUID, streamID.String())))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildAppendQuery builds the appropriate SQL query for single or multiple events.
func (es *EventStore) buildAppendQuery(
	allEvents eventstore.StorableEvents,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
) (sqlQueryString, error) {

	switch len(allEvents) {
	case 1:
		return es.buildInsertQueryForSingleEvent(allEvents[0], streamID, expectedVersion)

	default:
		return es.buildInsertQueryForMultipleEvents(allEvents, streamID, expectedVersion)
	}
}

// contextStatement selects the current highest stream_version of the stream, NULL for an empty stream.
func (es *EventStore) contextStatement(builder goqu.DialectWrapper, streamID uuid.UUID) *goqu.SelectDataset {
	return builder.
		From(es.eventTableName).
		Select(goqu.MAX(colStreamVersion).As(aliasMaxVersion)).
		Where(goqu.C(colStreamID).Eq(goqu.L(castUUID, streamID.String())))
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castUUID, streamID.String()),
			goqu.L(castBigint, expectedVersion+1),
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, event.PayloadJSON),
			goqu.L(castJsonb, event.MetadataJSON),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxVersion), 0).Eq(goqu.V(expectedVersion)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colStreamID, colStreamVersion, colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, es.contextStatement(builder, streamID))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// one SELECT per event, each carrying its target stream_version
	valuesStmt := builder.Select(es.valueColumns(events[0], expectedVersion+1)...)
	for i := 1; i < len(events); i++ {
		valuesStmt = valuesStmt.UnionAll(
			builder.Select(es.valueColumns(events[i], expectedVersion+eventstore.StreamVersionUint(i)+1)...),
		)
	}

	qualified := func(col string) string {
		return fmt.Sprintf("%s.%s", cteVals, col)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colStreamID, colStreamVersion, colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, es.contextStatement(builder, streamID)).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.L(castUUID, streamID.String()),
					goqu.I(qualified(colStreamVersion)),
					goqu.I(qualified(colEventType)),
					goqu.I(qualified(colOccurredAt)),
					goqu.I(qualified(colPayload)),
					goqu.I(qualified(colMetadata)),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxVersion), 0).Eq(goqu.V(expectedVersion))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) valueColumns(event eventstore.StorableEvent, version eventstore.StreamVersionUint) []any {
	return []any{
		goqu.L(castBigint, version).As(colStreamVersion),
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, event.PayloadJSON).As(colPayload),
		goqu.L(castJsonb, event.MetadataJSON).As(colMetadata),
	}
}
