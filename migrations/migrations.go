// Package migrations embeds the SQLite schema.
package migrations

import "embed"

// FS holds the *.up.sql files applied at startup, in name order.
//
//go:embed *.up.sql
var FS embed.FS
