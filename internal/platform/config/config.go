package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const dataDir = ".efforts"

// Config holds the complete application configuration.
type Config struct {
	VaultPath string `mapstructure:"-"`
	DataDir   string `mapstructure:"-"`

	Storage  StorageConfig `mapstructure:"storage"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Timer    TimerConfig   `mapstructure:"timer"`
	Stats    StatsConfig   `mapstructure:"stats"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Notify   NotifyConfig  `mapstructure:"notify"`
	Timezone string        `mapstructure:"timezone"`
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Type string `mapstructure:"type"` // "sqlite" or "redis"
	Path string `mapstructure:"path"` // sqlite database file
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
	File   string `mapstructure:"file"`   // used by the TUI; empty means stderr
}

type TimerConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	ResyncInterval time.Duration `mapstructure:"resync_interval"`
}

type StatsConfig struct {
	WeekStart string `mapstructure:"week_start"` // "sunday" or "monday"
}

type CacheConfig struct {
	Size int `mapstructure:"size"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

type NotifyConfig struct {
	Bell bool `mapstructure:"bell"`
}

// Load reads configuration for a vault. The config file defaults to
// <vault>/.efforts/config.yaml; a missing file is not an error. Environment
// variables prefixed with EFFORTS_ override file values.
func Load(vaultPath, configPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	dir := filepath.Join(vaultPath, dataDir)

	v := viper.New()
	setDefaults(v, dir)

	if configPath == "" {
		configPath = filepath.Join(dir, "config.yaml")
	}
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("EFFORTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.VaultPath = vaultPath
	cfg.DataDir = dir

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.path", filepath.Join(dir, "efforts.db"))

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "efforts")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", filepath.Join(dir, "efforts.log"))

	v.SetDefault("timer.tick_interval", "1s")
	v.SetDefault("timer.resync_interval", "1m")

	v.SetDefault("stats.week_start", "sunday")
	v.SetDefault("cache.size", 256)
	v.SetDefault("metrics.listen", "")
	v.SetDefault("notify.bell", true)
	v.SetDefault("timezone", "Local")
}

func validate(cfg Config) error {
	switch cfg.Storage.Type {
	case "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for redis storage")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	if cfg.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive")
	}
	if cfg.Timer.ResyncInterval <= 0 {
		return fmt.Errorf("timer.resync_interval must be positive")
	}
	if _, err := cfg.WeekStart(); err != nil {
		return err
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if cfg.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative")
	}
	return nil
}

// WeekStart resolves stats.week_start.
func (c Config) WeekStart() (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(c.Stats.WeekStart)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported stats.week_start %q", c.Stats.WeekStart)
	}
}

// Location resolves the timezone used for calendar boundaries.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
