// Package history persists completed and in-flight generation attempts in
// SQLite so the sessions commands can list and inspect past work.
//
// The database lives in the configured data directory and is treated as a
// lightweight log rather than an archive: schema changes bump the version in
// schema.go and users clear the database to adopt the new schema.
package history
