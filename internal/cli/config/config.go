package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file created by "eventc init"
const FileName = "eventc.yml"

// EnvPrefix prefixes the environment variables overriding configuration
// keys, e.g. EVENTC_CACHE_BACKEND
const EnvPrefix = "EVENTC"

// Config represents the eventc configuration
type Config struct {
	Project   string        `mapstructure:"project" yaml:"project"`
	Platform  string        `mapstructure:"platform" yaml:"platform"`
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	Cache     CacheConfig   `mapstructure:"cache" yaml:"cache"`
	History   HistoryConfig `mapstructure:"history" yaml:"history"`
	Preview   PreviewConfig `mapstructure:"preview" yaml:"preview"`

	// File is the configuration file read, empty when defaults were used
	File string `mapstructure:"-" yaml:"-"`
}

// CacheConfig selects where generated scenes are cached
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" yaml:"backend"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// MarshalYAML writes the TTL as a duration string
func (c CacheConfig) MarshalYAML() (any, error) {
	return struct {
		Backend   string `yaml:"backend"`
		RedisAddr string `yaml:"redis_addr,omitempty"`
		TTL       string `yaml:"ttl"`
	}{c.Backend, c.RedisAddr, c.TTL.String()}, nil
}

// HistoryConfig selects the database generation runs are recorded in. An
// empty DSN disables the history.
type HistoryConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// PreviewConfig is the address of the live preview server
type PreviewConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Accepted values
var (
	Platforms      = []string{"js", "native"}
	CacheBackends  = []string{"memory", "redis"}
	HistoryDrivers = []string{"sqlite3", "pgx", "postgres"}
)

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Project:   "game.json",
		Platform:  "js",
		OutputDir: "build",
		Cache: CacheConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		History: HistoryConfig{
			Driver: "sqlite3",
		},
		Preview: PreviewConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("project", d.Project)
	v.SetDefault("platform", d.Platform)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("history.driver", d.History.Driver)
	v.SetDefault("history.dsn", d.History.DSN)
	v.SetDefault("preview.host", d.Preview.Host)
	v.SetDefault("preview.port", d.Preview.Port)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load loads eventc.yml or eventc.yaml from the current directory, falling
// back to defaults when neither exists
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads the configuration from path. An empty path searches the
// current directory; a missing file is only an error when path is given.
func LoadFile(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("eventc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Write saves cfg as YAML to path
func Write(path string, cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ProjectPath resolves the project file against the directory of the
// configuration file
func (c *Config) ProjectPath() string {
	if c.File == "" || filepath.IsAbs(c.Project) {
		return c.Project
	}
	return filepath.Join(filepath.Dir(c.File), c.Project)
}

// GetProjectRoot walks up from the current directory to the first one
// holding eventc.yml or eventc.yaml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"eventc.yml", "eventc.yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in this directory or any parent", FileName)
		}
		dir = parent
	}
}

func oneOf(value string, accepted []string) bool {
	for _, a := range accepted {
		if value == a {
			return true
		}
	}
	return false
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project must name the project file")
	}
	if !oneOf(cfg.Platform, Platforms) {
		return fmt.Errorf("platform must be one of %s, got: %s", strings.Join(Platforms, ", "), cfg.Platform)
	}
	if !oneOf(cfg.Cache.Backend, CacheBackends) {
		return fmt.Errorf("cache.backend must be one of %s, got: %s", strings.Join(CacheBackends, ", "), cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required when cache.backend is redis")
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got: %s", cfg.Cache.TTL)
	}
	if !oneOf(cfg.History.Driver, HistoryDrivers) {
		return fmt.Errorf("history.driver must be one of %s, got: %s", strings.Join(HistoryDrivers, ", "), cfg.History.Driver)
	}
	if cfg.Preview.Port < 0 || cfg.Preview.Port > 65535 {
		return fmt.Errorf("preview.port must be between 0 and 65535, got: %d", cfg.Preview.Port)
	}
	return nil
}
