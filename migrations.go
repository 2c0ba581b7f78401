package markitup

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for hosts that run
// their own migration tool instead of Module.Migrate.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
