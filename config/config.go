package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the relsize configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Debug       DebugConfig       `mapstructure:"debug"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Demo        DemoConfig        `mapstructure:"demo"`
	Breakpoints map[string]string `mapstructure:"breakpoints"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// File is the log file path; empty discards logs
	File string `mapstructure:"file"`
}

// DebugConfig controls the diagnostics monitor.
type DebugConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables metrics
	Addr string `mapstructure:"addr"`
}

// DemoConfig controls the demo program.
type DemoConfig struct {
	// ContainerPercent is the container's share of the terminal width (10-100)
	ContainerPercent int `mapstructure:"container_percent"`
	// Lazy mounts demo consumers only after the container is measured
	Lazy bool `mapstructure:"lazy"`
}

// Dir returns the relsize configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "relsize")
}

// InitFile returns the path to init.lua, which may register named breakpoints.
func InitFile() string {
	return filepath.Join(Dir(), "init.lua")
}

// File returns the default config file path.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "INFO",
		},
		Debug: DebugConfig{
			Interval: 5 * time.Second,
		},
		Demo: DemoConfig{
			ContainerPercent: 60,
		},
		Breakpoints: map[string]string{
			"compact": "width ~= nil and width < 50",
			"regular": "width ~= nil and width >= 50 and width < 90",
			"wide":    "width ~= nil and width >= 90",
		},
	}
}

// SetDefaults registers defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("debug.enabled", d.Debug.Enabled)
	v.SetDefault("debug.interval", d.Debug.Interval)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("demo.container_percent", d.Demo.ContainerPercent)
	v.SetDefault("demo.lazy", d.Demo.Lazy)
	v.SetDefault("breakpoints", d.Breakpoints)
}

// Load reads configuration from path, or from the default locations when
// path is empty. A missing file is not an error. Environment variables
// prefixed RELSIZE_ override file values, e.g. RELSIZE_LOG_LEVEL.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RELSIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Demo.ContainerPercent < 10 || c.Demo.ContainerPercent > 100 {
		return fmt.Errorf("demo.container_percent must be between 10 and 100, got %d", c.Demo.ContainerPercent)
	}
	if c.Debug.Interval <= 0 {
		return fmt.Errorf("debug.interval must be positive, got %s", c.Debug.Interval)
	}
	for name, expr := range c.Breakpoints {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("breakpoint %q has an empty expression", name)
		}
	}
	return nil
}
