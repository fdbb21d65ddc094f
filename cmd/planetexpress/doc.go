// Command planetexpress runs the Planet Express scenario against the stream engine selected in the environment.
//
// It founds a company, hires two employees, promotes one, saves the company, loads it back and prints the roster.
//
// Configuration (see shell/config):
//
//	EVENTSTORE_ENGINE=memory|postgres|redis
//	POSTGRES_DSN, POSTGRES_REPLICA_DSN, POSTGRES_ADAPTER=pgx|sql|sqlx, POSTGRES_TABLE_NAME
//	REDIS_ADDR, REDIS_KEY_PREFIX
//	LOG_LEVEL=debug|info|warn|error
//	TRACE_STDOUT=true   print spans to stderr
package main
