package migrations

import "embed"

// FS contains the embedded SQLite migrations for the results ledger.
//
//go:embed *.sql
var FS embed.FS
