package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// The audit schema ships inside the binary so deployments don't depend on
// the working directory containing a migrations folder.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationFiles returns the embedded migration names in apply order.
func migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RunMigrations applies the embedded SQL migrations in lexical order. The
// schema only backs the stage audit trail, so a nil pool skips quietly.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool; skipping audit schema migrations")
		return nil
	}

	names, err := migrationFiles()
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		logger.Info("applying audit migration", zap.String("file", name))
		if _, err := pool.Exec(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	logger.Info("audit migrations applied", zap.Int("count", len(names)))
	return nil
}
