package main

import (
	"github.com/kbukum/tinydi/config"
	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/observability"
	"github.com/kbukum/tinydi/version"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
}

// Config is the shop service configuration.
type Config struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	Logging logger.Config              `yaml:"logging" mapstructure:"logging"`
	Server  ServerConfig               `yaml:"server" mapstructure:"server"`
	Tracing observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "shop"
	}
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5
	}

	tracing := observability.DefaultTracerConfig(c.Name)
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = tracing.Endpoint
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = tracing.SampleRate
	}
	c.Tracing.ServiceName, c.Tracing.ServiceVersion, c.Tracing.Environment = c.Name, c.Version, c.Environment

	metrics := observability.DefaultMeterConfig(c.Name)
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = metrics.Endpoint
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = metrics.Interval
	}
	c.Metrics.ServiceName, c.Metrics.ServiceVersion, c.Metrics.Environment = c.Name, c.Version, c.Environment
}

// Validate runs checks that struct tags cannot express.
func (c *Config) Validate() error {
	return c.Logging.Validate()
}
