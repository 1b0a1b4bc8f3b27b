package config

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/chrissnell/paleoprofile/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations returns the schema migrations of the SQLite configuration
// database.
func Migrations() ([]migrate.Migration, error) {
	return migrate.Load(migrationFS, "migrations")
}

// InitSQLite creates the configuration database at path, or upgrades an
// existing one to the latest schema.
func InitSQLite(ctx context.Context, path string, logger *zap.SugaredLogger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	migrations, err := Migrations()
	if err != nil {
		return err
	}
	return migrate.NewMigrator(db, migrations, logger).MigrateUp(ctx)
}

// SaveConfig replaces the stored settings and override presets with cfg.
// The service itself never calls it; it backs YAML to SQLite conversion.
func (s *SQLiteProvider) SaveConfig(ctx context.Context, cfg *ConfigData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM range_overrides`); err != nil {
		return fmt.Errorf("failed to clear range overrides: %w", err)
	}

	for key, value := range settingsOf(cfg) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to insert setting %q: %w", key, err)
		}
	}

	for _, o := range cfg.Overrides {
		for param, r := range o.Ranges {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO range_overrides (zone, base_type, env_type, parameter, min_value, max_value, trend)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				o.Zone, o.BaseType, o.EnvType, param, r.Min, r.Max, r.Trend); err != nil {
				return fmt.Errorf("failed to insert override zone %d %s: %w", o.Zone, param, err)
			}
		}
	}

	return tx.Commit()
}

// settingsOf flattens the set fields of cfg into the dotted keys read by
// applySettings.
func settingsOf(cfg *ConfigData) map[string]string {
	out := make(map[string]string)
	str := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	num := func(key string, v int) {
		if v != 0 {
			out[key] = strconv.Itoa(v)
		}
	}
	float := func(key string, v float64) {
		if v != 0 {
			out[key] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	flag := func(key string, v bool) {
		if v {
			out[key] = strconv.FormatBool(v)
		}
	}

	str("server.listen_addr", cfg.Server.ListenAddr)
	num("server.port", cfg.Server.Port)
	str("server.cert", cfg.Server.Cert)
	str("server.key", cfg.Server.Key)
	num("generation.max_depth_points", cfg.Generation.MaxDepthPoints)
	num("generation.batch_concurrency", cfg.Generation.BatchConcurrency)
	num("generation.max_batch_size", cfg.Generation.MaxBatchSize)
	float("generation.default_step", cfg.Generation.DefaultStep)
	num("generation.default_zones", cfg.Generation.DefaultZones)
	flag("logging.debug", cfg.Logging.Debug)
	str("logging.file", cfg.Logging.File)
	num("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	num("logging.max_backups", cfg.Logging.MaxBackups)
	num("logging.max_age_days", cfg.Logging.MaxAgeDays)
	flag("telemetry.enabled", cfg.Telemetry.Enabled)
	str("telemetry.endpoint", cfg.Telemetry.Endpoint)
	str("telemetry.service_name", cfg.Telemetry.ServiceName)
	float("telemetry.sample_ratio", cfg.Telemetry.SampleRatio)
	return out
}

// ConvertYAMLToSQLite writes the configuration in yamlPath to a new
// database at sqlitePath. An existing database is replaced only when force
// is set.
func ConvertYAMLToSQLite(ctx context.Context, yamlPath, sqlitePath string, force bool, logger *zap.SugaredLogger) (*ConfigData, error) {
	cfg, err := NewYAMLProvider(yamlPath).LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading YAML configuration: %w", err)
	}
	if _, err := cfg.RangeOverrides(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		if !force {
			return nil, fmt.Errorf("SQLite file already exists: %s", sqlitePath)
		}
		if err := os.Remove(sqlitePath); err != nil {
			return nil, fmt.Errorf("error removing existing SQLite file: %w", err)
		}
	}

	if err := InitSQLite(ctx, sqlitePath, logger); err != nil {
		return nil, fmt.Errorf("error creating SQLite database: %w", err)
	}

	provider, err := NewSQLiteProvider(sqlitePath)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	if err := provider.SaveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}
	return cfg, nil
}
