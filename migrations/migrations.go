// Package migrations embeds the golang-migrate SQL files so the server binary
// can apply them without a migrations directory on disk.
package migrations

import "embed"

// FS holds every *.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
