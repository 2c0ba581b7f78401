package documents

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-markitup/internal/fields"
)

// Migrate creates the table described by def when it does not exist.
func Migrate(ctx context.Context, db *bun.DB, def *fields.Definition) error {
	ddl := def.CreateTableSQL()
	if ddl == "" {
		return fmt.Errorf("documents: definition %q is abstract", def.Table())
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("documents: create table %s: %w", def.Table(), err)
	}
	return nil
}
