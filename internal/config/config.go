// Package config loads statehost settings from defaults, an optional YAML
// file, STATEHOST_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"statehost/internal/bundle"
	"statehost/internal/logging"
	"statehost/internal/store"
)

// ConfigEnv names an explicit config file.
const ConfigEnv = "STATEHOST_CONFIG"

// Config holds application configuration.
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Codec string      `mapstructure:"codec"`
	Log   LogConfig   `mapstructure:"log"`
	Trace TraceConfig `mapstructure:"trace"`
}

// StoreConfig selects where bundles survive process death.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// LogConfig holds logger settings. An empty File means stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TraceConfig holds tracing settings. An empty Endpoint disables OTLP export
// and an empty DebugAddr disables the timeline server.
type TraceConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Service   string `mapstructure:"service"`
	DebugAddr string `mapstructure:"debug_addr"`
}

// New returns a viper instance with defaults, config file and env wiring.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("store.driver", store.DriverFile)
	v.SetDefault("store.path", filepath.Join("~", store.DefaultBase))
	v.SetDefault("codec", "json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("log.file", "")
	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.service", "statehost")
	v.SetDefault("trace.debug_addr", "")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv(ConfigEnv)
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "statehost"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STATEHOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if present and unmarshals v.
func Load(v *viper.Viper) (Config, error) {
	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Store.Path = store.ExpandHome(c.Store.Path)
	c.Log.File = store.ExpandHome(c.Log.File)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown drivers, codecs and log formats.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverFile, store.DriverSQLite:
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if _, err := bundle.CodecFor[any](c.Codec); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}
