// Package migrations embeds the PostgreSQL schema migrations for the
// gateway's ledger and record stores.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
