package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// FileName is the optional env-format config file looked up in each search
// path, e.g. ./catalog.env. A plain .env in the same directory is the
// fallback.
const FileName = "catalog"

var fileCandidates = []string{FileName + ".env", ".env"}

type Config struct {
	Port     string `mapstructure:"PORT"`
	DataFile string `mapstructure:"DATA_FILE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`
	MetricsToken   string `mapstructure:"METRICS_TOKEN"`

	WriteLimit       int           `mapstructure:"WRITE_LIMIT"`
	WriteLimitWindow time.Duration `mapstructure:"WRITE_LIMIT_WINDOW"`

	ReadHeaderTimeout time.Duration `mapstructure:"READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8082")
	v.SetDefault("DATA_FILE", "products.json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_TOKEN", "")
	v.SetDefault("WRITE_LIMIT", 0)
	v.SetDefault("WRITE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("READ_HEADER_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads defaults, then the first config file found in searchPaths
// (catalog.env before .env, earlier paths first), then the environment.
// Later sources win.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path, ok := findConfigFile(searchPaths); ok {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(searchPaths []string) (string, bool) {
	for _, dir := range searchPaths {
		for _, name := range fileCandidates {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path, true
			}
		}
	}
	return "", false
}

func (c *Config) validate() error {
	switch {
	case c.Port == "":
		return errors.New("config: PORT is required")
	case c.DataFile == "":
		return errors.New("config: DATA_FILE is required")
	case c.WriteLimit < 0:
		return fmt.Errorf("config: WRITE_LIMIT must be >= 0, got %d", c.WriteLimit)
	case c.WriteLimit > 0 && c.WriteLimitWindow <= 0:
		return errors.New("config: WRITE_LIMIT_WINDOW must be positive when WRITE_LIMIT is set")
	}
	return nil
}
