package migrations

import "embed"

// Migrations holds the ordered schema migrations applied by golang-migrate.
//
//go:embed *.sql
var Migrations embed.FS
