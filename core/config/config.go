package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"tailor-preview/core/database"
	"tailor-preview/core/engine"
	"tailor-preview/core/logger"
	"tailor-preview/core/preview"
	"tailor-preview/core/server"
	"tailor-preview/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete application configuration. Every section maps to an
// environment prefix: SERVER_PORT sets Server.Port, PREVIEW_QUEUE_CAPACITY sets
// Preview.QueueCapacity, and so on.
type Config struct {
	Server   server.Config   `mapstructure:"server"`
	Storage  storage.Config  `mapstructure:"storage"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	Engine   engine.Config   `mapstructure:"engine"`
	Preview  preview.Config  `mapstructure:"preview"`
}

// LoadConfig reads dir/.env (when present) and the environment on top of the
// `default` struct tags.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks every section that carries its own validation.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if c.Preview.QueueCapacity < 1 {
		errs = append(errs, fmt.Errorf("preview: queue_capacity must be at least 1, got %d", c.Preview.QueueCapacity))
	}
	return errors.Join(errs...)
}

// registerDefaults walks the mapstructure tags and registers every leaf key with
// its `default` tag. Registering empty defaults too is what lets AutomaticEnv
// see the key during Unmarshal.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
