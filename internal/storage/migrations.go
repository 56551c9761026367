package storage

import "embed"

// Migrations holds the numbered SQL files of the postgres backend. Pass it to
// db.NewMigrator with the "migrations" directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
