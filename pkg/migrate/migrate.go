// Package migrate applies versioned SQL migrations to a database.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// DefaultTable records which migrations have been applied.
const DefaultTable = "schema_migrations"

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrator applies migrations in version order. Each migration runs in its
// own transaction together with its version bookkeeping.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
	table      string
	logger     *zap.SugaredLogger
}

// NewMigrator creates a new migrator instance. A nil logger discards
// progress messages.
func NewMigrator(db *sql.DB, migrations []Migration, logger *zap.SugaredLogger) *Migrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &Migrator{
		db:         db,
		migrations: sorted,
		table:      DefaultTable,
		logger:     logger,
	}
}

// Latest returns the highest known migration version, zero when there are
// none.
func (m *Migrator) Latest() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

// MigrateUp runs all pending migrations up to the latest version
func (m *Migrator) MigrateUp(ctx context.Context) error {
	return m.MigrateTo(ctx, m.Latest())
}

// MigrateTo runs migrations up or down to reach targetVersion.
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if targetVersion < current {
		for i := len(m.migrations) - 1; i >= 0; i-- {
			mig := m.migrations[i]
			if mig.Version > targetVersion && mig.Version <= current {
				if err := m.execute(ctx, mig, false); err != nil {
					return fmt.Errorf("failed to roll back migration %d: %w", mig.Version, err)
				}
			}
		}
		return nil
	}

	for _, mig := range m.migrations {
		if mig.Version > current && mig.Version <= targetVersion {
			if err := m.execute(ctx, mig, true); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
			}
		}
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	var version int
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", m.table)
	if err := m.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Pending returns the migrations not applied yet, in version order.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, m.table)
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// execute runs one migration in the given direction.
func (m *Migrator) execute(ctx context.Context, mig Migration, up bool) error {
	script, direction := mig.Up, "up"
	if !up {
		script, direction = mig.Down, "down"
	}
	if script == "" {
		return fmt.Errorf("migration %d has no %s SQL", mig.Version, direction)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if up {
		_, err = tx.ExecContext(ctx, fmt.Sprintf("INSERT OR REPLACE INTO %s (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)", m.table), mig.Version)
	} else {
		_, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE version >= ?", m.table), mig.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to update migration version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	m.logger.Infow("applied migration", "version", mig.Version, "name", mig.Name, "direction", direction)
	return nil
}
