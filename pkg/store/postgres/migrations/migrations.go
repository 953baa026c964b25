// Package migrations embeds the Postgres document store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
