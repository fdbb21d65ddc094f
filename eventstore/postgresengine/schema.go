package postgresengine

import (
	"fmt"

	"github.com/lib/pq"
)

// SchemaStatements returns the DDL for an events table named tableName.
//
// sequence_number gives a global append order for projections. The unique index on
// (stream_id, stream_version) is the last line of defense for compare-and-append: two inserts that both
// saw the same stream length cannot both commit.
func SchemaStatements(tableName string) []string {
	table := pq.QuoteIdentifier(tableName)
	uniqueIndex := pq.QuoteIdentifier(tableName + "_stream_version_idx")

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s BIGSERIAL PRIMARY KEY,
	%s UUID NOT NULL,
	%s BIGINT NOT NULL,
	%s TEXT NOT NULL,
	%s TIMESTAMP WITH TIME ZONE NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL
)`, table, colSequenceNumber, colStreamID, colStreamVersion, colEventType, colOccurredAt, colPayload, colMetadata),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s, %s)`,
			uniqueIndex, table, colStreamID, colStreamVersion),
	}
}
