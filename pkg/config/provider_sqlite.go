package config

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	config := &ConfigData{}
	if err := applySettings(config, settings); err != nil {
		return nil, err
	}

	overrides, err := s.GetRangeOverrides()
	if err != nil {
		return nil, fmt.Errorf("failed to load range overrides: %w", err)
	}
	config.Overrides = overrides

	return config, nil
}

// GetServerConfig returns the HTTP server configuration
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	config, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Server, nil
}

// GetRangeOverrides returns every override preset, one per
// (zone, base type, environment type) key
func (s *SQLiteProvider) GetRangeOverrides() ([]RangeOverrideData, error) {
	query := `
		SELECT zone, base_type, env_type, parameter, min_value, max_value, trend
		FROM range_overrides
		ORDER BY zone, base_type, env_type, parameter
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query range overrides: %w", err)
	}
	defer rows.Close()

	var overrides []RangeOverrideData
	for rows.Next() {
		var zone int
		var baseType, envType, parameter, trend string
		var minValue, maxValue float64

		if err := rows.Scan(&zone, &baseType, &envType, &parameter, &minValue, &maxValue, &trend); err != nil {
			return nil, fmt.Errorf("failed to scan range override row: %w", err)
		}

		// Rows arrive grouped by key, so a new key starts a new preset
		n := len(overrides)
		if n == 0 || overrides[n-1].Zone != zone || overrides[n-1].BaseType != baseType || overrides[n-1].EnvType != envType {
			overrides = append(overrides, RangeOverrideData{
				Zone:     zone,
				BaseType: baseType,
				EnvType:  envType,
				Ranges:   make(map[string]RangeData),
			})
			n++
		}
		overrides[n-1].Ranges[parameter] = RangeData{Min: minValue, Max: maxValue, Trend: trend}
	}

	return overrides, rows.Err()
}

func (s *SQLiteProvider) loadSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// applySettings copies known dotted keys into config. Unknown keys are an
// error so typos surface at startup.
func applySettings(config *ConfigData, settings map[string]string) error {
	for key, value := range settings {
		var err error
		switch key {
		case "server.listen_addr":
			config.Server.ListenAddr = value
		case "server.port":
			config.Server.Port, err = strconv.Atoi(value)
		case "server.cert":
			config.Server.Cert = value
		case "server.key":
			config.Server.Key = value
		case "generation.max_depth_points":
			config.Generation.MaxDepthPoints, err = strconv.Atoi(value)
		case "generation.batch_concurrency":
			config.Generation.BatchConcurrency, err = strconv.Atoi(value)
		case "generation.max_batch_size":
			config.Generation.MaxBatchSize, err = strconv.Atoi(value)
		case "generation.default_step":
			config.Generation.DefaultStep, err = strconv.ParseFloat(value, 64)
		case "generation.default_zones":
			config.Generation.DefaultZones, err = strconv.Atoi(value)
		case "logging.debug":
			config.Logging.Debug, err = strconv.ParseBool(value)
		case "logging.file":
			config.Logging.File = value
		case "logging.max_size_mb":
			config.Logging.MaxSizeMB, err = strconv.Atoi(value)
		case "logging.max_backups":
			config.Logging.MaxBackups, err = strconv.Atoi(value)
		case "logging.max_age_days":
			config.Logging.MaxAgeDays, err = strconv.Atoi(value)
		case "telemetry.enabled":
			config.Telemetry.Enabled, err = strconv.ParseBool(value)
		case "telemetry.endpoint":
			config.Telemetry.Endpoint = value
		case "telemetry.service_name":
			config.Telemetry.ServiceName = value
		case "telemetry.sample_ratio":
			config.Telemetry.SampleRatio, err = strconv.ParseFloat(value, 64)
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
		if err != nil {
			return fmt.Errorf("invalid value %q for setting %q: %w", value, key, err)
		}
	}
	return nil
}

// IsReadOnly returns true; presets are managed outside the service
func (s *SQLiteProvider) IsReadOnly() bool {
	return true
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
