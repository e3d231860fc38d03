// Package config holds the configuration of the inventory service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/config/configloader"
)

// ServiceName is the service identity used for the env prefix and telemetry resources.
const ServiceName = "inventory"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	CORS       config.CORSConfig       `koanf:"cors"`
}

// Defaults returns the built-in configuration, overridden by config.yaml, .env and INVENTORY_* variables.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               5000,
		"server.maxheaderbytes":     1 << 20,
		"server.timeout.read":       "10s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readheader": "5s",

		"database.driver":  config.DriverMongo,
		"database.url":     "mongodb://127.0.0.1:27017",
		"database.name":    "inventory_system",
		"database.timeout": "10s",

		"log.level": "info",

		"pprof.enabled": false,
		"pprof.addr":    "127.0.0.1:6060",

		"grpc.port":       "50051",
		"grpc.reflection": false,

		"shutdown.timeout": "10s",

		"nats.enabled": false,
		"nats.url":     "nats://127.0.0.1:4222",
		"nats.stream":  "PRODUCTS",
		"nats.timeout": "5s",

		"telemetry.traces.enabled":           false,
		"telemetry.traces.otlphttp.endpoint": "localhost:4318",
		"telemetry.traces.otlphttp.insecure": true,
		"telemetry.traces.otlphttp.timeout":  "5s",
		"telemetry.metrics.enabled":          true,
		"telemetry.metrics.path":             "/metrics",

		"cors.allowedorigins": []string{"*"},
	}
}

// Load reads the service configuration.
func Load() (*Config, error) {
	return configloader.Load[*Config](ServiceName, Defaults())
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.CORS.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer, &c.Database, &c.Log, &c.PProf, &c.GRPC,
		&c.Shutdown, &c.NATS, &c.Telemetry, &c.CORS,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}
