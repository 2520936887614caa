// Package migrations embeds goose SQL migrations for both store dialects.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directories inside FS per goose dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
