// Package migrations embeds the goose SQL migrations for the local store.
// Migrations are additive only: a version bump may create new tables but
// never transforms existing rows in place.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
