// Package config loads service configuration from YAML or SQLite, overlays
// environment variables, and turns range presets into catalog overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/trend"
)

// Backend names a configuration source.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Defaults
const (
	DefaultPort             = 8080
	DefaultMaxDepthPoints   = 5000
	DefaultBatchConcurrency = 4
	DefaultMaxBatchSize     = 32
	DefaultStep             = 2.0
	DefaultZones            = 5
	DefaultLogMaxSizeMB     = 100
	DefaultLogMaxBackups    = 3
	DefaultLogMaxAgeDays    = 28
	DefaultServiceName      = "paleoprofile"
)

// NewProvider opens the provider for backend. An empty backend is inferred
// from the file extension.
func NewProvider(path, backend string) (ConfigProvider, error) {
	if backend == "" {
		backend = BackendYAML
		if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
			backend = BackendSQLite
		}
	}

	switch backend {
	case BackendYAML:
		return NewYAMLProvider(path), nil
	case BackendSQLite:
		return NewSQLiteProvider(path)
	}
	return nil, fmt.Errorf("unknown config backend %q (want yaml or sqlite)", backend)
}

// Load reads path with the given backend, overlays the environment, fills
// defaults and validates the result. An empty path skips the file.
func Load(path, backend string) (*ConfigData, error) {
	config := &ConfigData{}

	if path != "" {
		provider, err := NewProvider(path, backend)
		if err != nil {
			return nil, err
		}
		defer provider.Close()

		config, err = provider.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyDefaults fills every unset field.
func (c *ConfigData) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Generation.MaxDepthPoints == 0 {
		c.Generation.MaxDepthPoints = DefaultMaxDepthPoints
	}
	if c.Generation.BatchConcurrency == 0 {
		c.Generation.BatchConcurrency = DefaultBatchConcurrency
	}
	if c.Generation.MaxBatchSize == 0 {
		c.Generation.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.Generation.DefaultStep == 0 {
		c.Generation.DefaultStep = DefaultStep
	}
	if c.Generation.DefaultZones == 0 {
		c.Generation.DefaultZones = DefaultZones
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
}

// Validate checks limits and every override preset.
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		errs = append(errs, errors.New("server cert and key must be set together"))
	}
	if c.Generation.MaxDepthPoints < 1 {
		errs = append(errs, fmt.Errorf("max depth points must be positive, got %d", c.Generation.MaxDepthPoints))
	}
	if c.Generation.BatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("batch concurrency must be positive, got %d", c.Generation.BatchConcurrency))
	}
	if c.Generation.MaxBatchSize < 1 {
		errs = append(errs, fmt.Errorf("max batch size must be positive, got %d", c.Generation.MaxBatchSize))
	}
	if c.Generation.DefaultStep <= 0 {
		errs = append(errs, fmt.Errorf("default step must be positive, got %v", c.Generation.DefaultStep))
	}
	if c.Generation.DefaultZones < 1 {
		errs = append(errs, fmt.Errorf("default zones must be positive, got %d", c.Generation.DefaultZones))
	}
	if r := c.Telemetry.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("telemetry sample ratio %v outside [0, 1]", r))
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry enabled without an endpoint"))
	}

	if _, err := c.RangeOverrides(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RangeOverrides converts the presets into catalog overrides.
func (c *ConfigData) RangeOverrides() ([]catalog.Override, error) {
	out := make([]catalog.Override, 0, len(c.Overrides))
	for i, o := range c.Overrides {
		override, err := o.Override()
		if err != nil {
			return nil, fmt.Errorf("override %d: %w", i, err)
		}
		out = append(out, override)
	}
	return out, nil
}

// ApplyOverrides stores every preset in store, returning the resulting
// store version.
func (c *ConfigData) ApplyOverrides(store *catalog.OverrideStore) (uint64, error) {
	overrides, err := c.RangeOverrides()
	if err != nil {
		return 0, err
	}

	version := store.Version()
	for _, o := range overrides {
		if version, err = store.Set(o.Key, o.Ranges); err != nil {
			return 0, fmt.Errorf("override for %s: %w", o.Key, err)
		}
	}
	return version, nil
}

// Override validates the preset and converts it for the override store.
func (o RangeOverrideData) Override() (catalog.Override, error) {
	if o.Zone < 1 {
		return catalog.Override{}, fmt.Errorf("zone must be positive, got %d", o.Zone)
	}

	geo, err := catalog.ParseGeology(o.BaseType, o.EnvType)
	if err != nil {
		return catalog.Override{}, err
	}

	ranges := make(catalog.Ranges, len(o.Ranges))
	for name, r := range o.Ranges {
		param, err := catalog.ParseParameter(name)
		if err != nil {
			return catalog.Override{}, err
		}
		kind, err := trend.ParseKind(r.Trend)
		if err != nil {
			return catalog.Override{}, fmt.Errorf("%s: %w", name, err)
		}
		ranges[param] = catalog.Range{Min: r.Min, Max: r.Max, Trend: kind}
	}
	if err := ranges.Validate(); err != nil {
		return catalog.Override{}, err
	}

	return catalog.Override{
		Key:    catalog.Key{Zone: o.Zone, Base: geo.Base, Env: geo.Env},
		Ranges: ranges,
	}, nil
}
