package migrations

import "embed"

// FS contains embedded SQLite migrations for stream snapshots.
//
//go:embed *.sql
var FS embed.FS
