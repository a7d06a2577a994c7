// Package config loads service configuration from config.yml, .env files
// and the process environment.
//
// Files are searched in the usual places for a service (./cmd/<svc>,
// ./config, the working directory). Environment variables override file
// values: SERVER_ADDR overrides server.addr, and with WithEnvPrefix("SHOP")
// SHOP_SERVER_ADDR does.
//
//	var cfg ShopConfig
//	if err := config.Load("shop", &cfg); err != nil {
//	    return err
//	}
//
// After unmarshalling, Load calls ApplyDefaults when cfg implements
// Defaulter, validates `validate` struct tags and finally calls Validate
// when cfg implements Validator.
package config
