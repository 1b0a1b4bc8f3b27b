package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server     ServerYAML          `yaml:"server,omitempty"`
		Generation GenerationYAML      `yaml:"generation,omitempty"`
		Logging    LoggingYAML         `yaml:"logging,omitempty"`
		Telemetry  TelemetryYAML       `yaml:"telemetry,omitempty"`
		Overrides  []RangeOverrideYAML `yaml:"overrides,omitempty"`
	}

	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Server: ServerData{
			ListenAddr: yamlConfig.Server.ListenAddr,
			Port:       yamlConfig.Server.Port,
			Cert:       yamlConfig.Server.Cert,
			Key:        yamlConfig.Server.Key,
		},
		Generation: GenerationData{
			MaxDepthPoints:   yamlConfig.Generation.MaxDepthPoints,
			BatchConcurrency: yamlConfig.Generation.BatchConcurrency,
			MaxBatchSize:     yamlConfig.Generation.MaxBatchSize,
			DefaultStep:      yamlConfig.Generation.DefaultStep,
			DefaultZones:     yamlConfig.Generation.DefaultZones,
		},
		Logging: LoggingData{
			Debug:      yamlConfig.Logging.Debug,
			File:       yamlConfig.Logging.File,
			MaxSizeMB:  yamlConfig.Logging.MaxSizeMB,
			MaxBackups: yamlConfig.Logging.MaxBackups,
			MaxAgeDays: yamlConfig.Logging.MaxAgeDays,
		},
		Telemetry: TelemetryData{
			Enabled:     yamlConfig.Telemetry.Enabled,
			Endpoint:    yamlConfig.Telemetry.Endpoint,
			ServiceName: yamlConfig.Telemetry.ServiceName,
			SampleRatio: yamlConfig.Telemetry.SampleRatio,
		},
		Overrides: make([]RangeOverrideData, len(yamlConfig.Overrides)),
	}

	// Convert override presets
	for i, o := range yamlConfig.Overrides {
		config.Overrides[i] = RangeOverrideData{
			Zone:     o.Zone,
			BaseType: o.BaseType,
			EnvType:  o.EnvType,
			Ranges:   make(map[string]RangeData, len(o.Ranges)),
		}
		for param, r := range o.Ranges {
			config.Overrides[i].Ranges[param] = RangeData{
				Min:   r.Min,
				Max:   r.Max,
				Trend: r.Trend,
			}
		}
	}

	return config, nil
}

// GetServerConfig returns the HTTP server configuration
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Server, nil
}

// GetRangeOverrides returns the range override presets
func (y *YAMLProvider) GetRangeOverrides() ([]RangeOverrideData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Overrides, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ServerYAML struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
}

type GenerationYAML struct {
	MaxDepthPoints   int     `yaml:"max-depth-points,omitempty"`
	BatchConcurrency int     `yaml:"batch-concurrency,omitempty"`
	MaxBatchSize     int     `yaml:"max-batch-size,omitempty"`
	DefaultStep      float64 `yaml:"default-step,omitempty"`
	DefaultZones     int     `yaml:"default-zones,omitempty"`
}

type LoggingYAML struct {
	Debug      bool   `yaml:"debug,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}

type TelemetryYAML struct {
	Enabled     bool    `yaml:"enabled,omitempty"`
	Endpoint    string  `yaml:"endpoint,omitempty"`
	ServiceName string  `yaml:"service-name,omitempty"`
	SampleRatio float64 `yaml:"sample-ratio,omitempty"`
}

type RangeOverrideYAML struct {
	Zone     int                  `yaml:"zone"`
	BaseType string               `yaml:"base-type,omitempty"`
	EnvType  string               `yaml:"env-type,omitempty"`
	Ranges   map[string]RangeYAML `yaml:"ranges"`
}

type RangeYAML struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Trend string  `yaml:"trend"`
}
