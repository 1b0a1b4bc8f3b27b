package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverlay lists the PALEO_* variables. Pointer fields stay nil when the
// variable is unset, so only variables that are present override the file.
type envOverlay struct {
	ListenAddr       *string  `env:"PALEO_LISTEN_ADDR"`
	Port             *int     `env:"PALEO_PORT"`
	Cert             *string  `env:"PALEO_TLS_CERT"`
	Key              *string  `env:"PALEO_TLS_KEY"`
	MaxDepthPoints   *int     `env:"PALEO_MAX_DEPTH_POINTS"`
	BatchConcurrency *int     `env:"PALEO_BATCH_CONCURRENCY"`
	MaxBatchSize     *int     `env:"PALEO_MAX_BATCH_SIZE"`
	Debug            *bool    `env:"PALEO_DEBUG"`
	LogFile          *string  `env:"PALEO_LOG_FILE"`
	OTelEnabled      *bool    `env:"PALEO_OTEL_ENABLED"`
	OTelEndpoint     *string  `env:"PALEO_OTEL_ENDPOINT"`
	OTelServiceName  *string  `env:"PALEO_OTEL_SERVICE_NAME"`
	OTelSampleRatio  *float64 `env:"PALEO_OTEL_SAMPLE_RATIO"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays any PALEO_* variables onto config.
func ApplyEnv(config *ConfigData) error {
	var o envOverlay
	if err := ParseEnv(&o); err != nil {
		return err
	}

	set(&config.Server.ListenAddr, o.ListenAddr)
	set(&config.Server.Port, o.Port)
	set(&config.Server.Cert, o.Cert)
	set(&config.Server.Key, o.Key)
	set(&config.Generation.MaxDepthPoints, o.MaxDepthPoints)
	set(&config.Generation.BatchConcurrency, o.BatchConcurrency)
	set(&config.Generation.MaxBatchSize, o.MaxBatchSize)
	set(&config.Logging.Debug, o.Debug)
	set(&config.Logging.File, o.LogFile)
	set(&config.Telemetry.Enabled, o.OTelEnabled)
	set(&config.Telemetry.Endpoint, o.OTelEndpoint)
	set(&config.Telemetry.ServiceName, o.OTelServiceName)
	set(&config.Telemetry.SampleRatio, o.OTelSampleRatio)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
