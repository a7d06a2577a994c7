// Package validation validates configuration structs using struct tags.
//
//	type ServerConfig struct {
//	    Addr string `mapstructure:"addr" validate:"required,hostname_port"`
//	}
//	err := validation.Validate(cfg)
//
// Failures are reported as an INVALID_CONFIG *errors.AppError whose
// "fields" detail lists every offending field.
package validation
