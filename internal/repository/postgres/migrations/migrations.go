// Package migrations embeds the catalog schema migrations.
package migrations

import "embed"

//go:embed *.up.sql
var Files embed.FS
