package migrations

import "embed"

// FS contains embedded SQLite migrations for odds storage.
//
//go:embed *.sql
var FS embed.FS
