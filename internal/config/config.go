// Package config loads console settings from defaults, an optional YAML file
// and SWMODULE_* environment variables, in increasing precedence.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SWMODULE_SERVER_ADDR.
const EnvPrefix = "SWMODULE"

// Config is the console configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Locale     string           `mapstructure:"locale"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Store      StoreConfig      `mapstructure:"store"`
	Validation ValidationConfig `mapstructure:"validation"`
	Log        LogConfig        `mapstructure:"log"`
	Actor      string           `mapstructure:"actor"`
	Dialog     DialogConfig     `mapstructure:"dialog"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

// StoreConfig selects the snapshot file of the in-memory store. An empty
// path keeps everything in memory.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ValidationConfig struct {
	StrictVersions bool `mapstructure:"strict_versions"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DialogConfig overrides the embedded form descriptor.
type DialogConfig struct {
	Descriptor string `mapstructure:"descriptor"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:     ServerConfig{Addr: ":8080"},
		Locale:     "en",
		Theme:      ThemeConfig{Name: "console"},
		Validation: ValidationConfig{StrictVersions: false},
		Log:        LogConfig{Level: "info"},
		Actor:      "console",
	}
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Flags are bound by key name, e.g. a "server.addr" flag overrides
	// server.addr when it was changed on the command line.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("config: load canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := Default()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("theme.name", defaults.Theme.Name)
	v.SetDefault("theme.variant", defaults.Theme.Variant)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("validation.strict_versions", defaults.Validation.StrictVersions)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("actor", defaults.Actor)
	v.SetDefault("dialog.descriptor", defaults.Dialog.Descriptor)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", opts.File, err)
		}
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
	}

	if opts.Flags != nil {
		for _, key := range v.AllKeys() {
			if flag := opts.Flags.Lookup(key); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type check.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Locale) == "" {
		errs = append(errs, errors.New("locale is required"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level; Validate guarantees it parses.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
