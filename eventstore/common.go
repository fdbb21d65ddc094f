package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName        = errors.New("events table name must not be empty")
	ErrEmptyKeyPrefix              = errors.New("stream key prefix must not be empty")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrNilStreamID                 = errors.New("stream id must not be the nil uuid")
	ErrConcurrencyConflict         = errors.New("concurrency error, the stream was changed in the meantime")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrScanningDBRowFailed         = errors.New("scanning the database row failed")
	ErrBuildingStorableEventFailed = errors.New("building the storable event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting the rows affected failed")
)

// StreamVersionUint is a type alias for uint, representing the number of events in one entity's stream.
// An event's StreamVersion is its one-based position, so a stream of length n ends with version n.
type StreamVersionUint = uint
