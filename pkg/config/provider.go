package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetServerConfig() (*ServerData, error)
	GetRangeOverrides() ([]RangeOverrideData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server     ServerData          `json:"server"`
	Generation GenerationData      `json:"generation"`
	Logging    LoggingData         `json:"logging"`
	Telemetry  TelemetryData       `json:"telemetry"`
	Overrides  []RangeOverrideData `json:"overrides,omitempty"`
}

// ServerData holds the HTTP API listener settings
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
}

// GenerationData bounds the work a single request may ask for
type GenerationData struct {
	MaxDepthPoints   int     `json:"max_depth_points,omitempty"`
	BatchConcurrency int     `json:"batch_concurrency,omitempty"`
	MaxBatchSize     int     `json:"max_batch_size,omitempty"`
	DefaultStep      float64 `json:"default_step,omitempty"`
	DefaultZones     int     `json:"default_zones,omitempty"`
}

// LoggingData selects log verbosity and an optional rotated log file
type LoggingData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// TelemetryData configures OpenTelemetry trace export
type TelemetryData struct {
	Enabled     bool    `json:"enabled,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty"`
	ServiceName string  `json:"service_name,omitempty"`
	SampleRatio float64 `json:"sample_ratio,omitempty"`
}

// RangeOverrideData is a preset of custom ranges for one zone and optional
// geological context, applied to the override store at startup
type RangeOverrideData struct {
	Zone     int                  `json:"zone"`
	BaseType string               `json:"base_type,omitempty"`
	EnvType  string               `json:"env_type,omitempty"`
	Ranges   map[string]RangeData `json:"ranges"`
}

// RangeData is one (min, max, trend) triple keyed by parameter name
type RangeData struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Trend string  `json:"trend"`
}
