// Package migrations embeds the SQL schema migrations applied at start-up.
package migrations

import "embed"

// FS holds the versioned up/down SQL files under sql/
//
//go:embed sql/*.sql
var FS embed.FS

// Dir is the directory inside FS that holds the migration files
const Dir = "sql"
