package sqlite

import _ "embed"

// schemaSQL creates the index tables. The database is in memory and rebuilt
// from the store, so there are no migrations.
//
//go:embed schema.sql
var schemaSQL string
