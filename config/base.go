package config

// BaseConfig contains essential fields that every service needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// IsProduction reports whether the service runs in production.
func (c *BaseConfig) IsProduction() bool {
	return c.Environment == "production"
}
