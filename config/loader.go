package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/validation"
)

// Defaulter is implemented by configs that fill in unset values.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configs with checks beyond struct tags.
type Validator interface {
	Validate() error
}

// Options holds loader dependencies and optional file overrides.
type Options struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
	EnvPrefix  string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) Option {
	return func(o *Options) { o.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// WithEnvPrefix requires environment overrides to carry PREFIX_.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

// Load reads configuration for serviceName into cfg, which must be a
// pointer to a struct. A missing config file is not an error; an
// unreadable one is.
func Load(serviceName string, cfg any, opts ...Option) error {
	o := Options{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: %s target must be a non-nil struct pointer, got %T", serviceName, cfg)
	}

	log := logger.Get("config")
	files := FindFiles(o.FileSystem, serviceName, o)

	// .env is applied first so that its values reach viper's env lookup.
	if files.EnvFile != "" && o.FileSystem.Exists(files.EnvFile) {
		if err := o.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.MergeWithError(
				logger.Fields("path", files.EnvFile), err))
		}
	}

	v := viper.New()
	if files.ConfigFile != "" && o.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("service", serviceName, "path", files.ConfigFile))
	}

	if o.EnvPrefix != "" {
		v.SetEnvPrefix(o.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range structKeys(rv.Elem().Type(), "") {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("config: binding %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := validation.Validate(cfg); err != nil {
		return err
	}
	if val, ok := cfg.(Validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// structKeys lists the dotted viper keys for every leaf field of t so that
// AutomaticEnv can see them during Unmarshal.
func structKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, squash := fieldKey(f)
		if name == "-" {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			if squash {
				keys = append(keys, structKeys(ft, prefix)...)
			} else {
				keys = append(keys, structKeys(ft, prefix+name+".")...)
			}
			continue
		}
		keys = append(keys, prefix+name)
	}
	return keys
}

func fieldKey(f reflect.StructField) (name string, squash bool) {
	tag := f.Tag.Get("mapstructure")
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "squash" {
			squash = true
		}
	}
	if parts[0] != "" {
		return parts[0], squash
	}
	return strings.ToLower(f.Name), squash
}
