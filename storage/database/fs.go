package database

import "embed"

// MigrationsFS holds the goose migration scripts; the admin app runs
// arbitrary goose commands against it.
//go:embed migrations/*.sql
var MigrationsFS embed.FS
