package migrations

import "embed"

// FS contains embedded SQLite migrations for the host state store.
//
//go:embed *.sql
var FS embed.FS
