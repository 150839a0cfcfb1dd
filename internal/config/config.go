package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Store struct {
		Driver string
		Path   string
	}
	Log struct {
		Level string
		File  string
	}
	Stats struct {
		Timezone string
	}
}

// Load reads configuration from SALESDASH_* environment variables and an
// optional config file in the working directory.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "data/dashboard.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("stats.timezone", "Local")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Location resolves Stats.Timezone. Daily series are bucketed in this zone.
func (c Config) Location() (*time.Location, error) {
	if c.Stats.Timezone == "" || c.Stats.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Stats.Timezone, err)
	}
	return loc, nil
}
