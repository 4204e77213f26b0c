// Package config resolves cslogstats settings from flags, environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "cslogstats"
	dirName   = ".cslogstats"
)

type Config struct {
	DB       string `mapstructure:"db"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// Dir returns the per-user data directory, $HOME/.cslogstats.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, dirName)
}

// Read merges the config file, CSLOGSTATS_* environment variables and any
// flags in fs that were set. cfgFile overrides the default search path and
// must exist when given.
func Read(cfgFile string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("db", filepath.Join(Dir(), "logs.db"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, flag := range map[string]string{"db": "db", "log_level": "log-level", "log_file": "log-file"} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config format: %w", err)
	}

	return cfg, nil
}
