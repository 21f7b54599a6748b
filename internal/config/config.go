package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPort                = 3000
	DefaultSampleInterval      = 1 * time.Second
	DefaultProcessInterval     = 2 * time.Second
	DefaultBaseURL             = "http://localhost:3000"
	DefaultPerformanceInterval = 1 * time.Second
	DefaultRequestTimeout      = 5 * time.Second
	DefaultSortField           = "cpu"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig drives `sysdash serve`.
type ServerConfig struct {
	Port int `yaml:"port"`

	// DiskPath is the mount point whose usage feeds the disk chart.
	DiskPath string `yaml:"disk_path"`

	// SampleInterval is the host sampling period for the performance history.
	SampleInterval time.Duration `yaml:"sample_interval"`

	// ProcessInterval is how often the process table is rebuilt.
	ProcessInterval time.Duration `yaml:"process_interval"`
}

// DashboardConfig drives `sysdash watch`.
type DashboardConfig struct {
	BaseURL             string        `yaml:"base_url"`
	PerformanceInterval time.Duration `yaml:"performance_interval"`
	ProcessInterval     time.Duration `yaml:"process_interval"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	SortField           string        `yaml:"sort_field"`
	Ascending           bool          `yaml:"ascending"`
	LogFile             string        `yaml:"log_file"`
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("config: could not load .env", "err", err)
	}

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			DiskPath:        defaultDiskPath(),
			SampleInterval:  DefaultSampleInterval,
			ProcessInterval: DefaultProcessInterval,
		},
		Dashboard: DashboardConfig{
			BaseURL:             DefaultBaseURL,
			PerformanceInterval: DefaultPerformanceInterval,
			ProcessInterval:     DefaultProcessInterval,
			RequestTimeout:      DefaultRequestTimeout,
			SortField:           DefaultSortField,
		},
	}
}

func defaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// applyEnv lets SYSDASH_* variables override file values.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SYSDASH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SYSDASH_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SYSDASH_DISK_PATH"); v != "" {
		cfg.Server.DiskPath = v
	}
	if v := os.Getenv("SYSDASH_BASE_URL"); v != "" {
		cfg.Dashboard.BaseURL = v
	}
	if v := os.Getenv("SYSDASH_SORT"); v != "" {
		cfg.Dashboard.SortField = v
	}
	if v := os.Getenv("SYSDASH_LOG_FILE"); v != "" {
		cfg.Dashboard.LogFile = v
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.DiskPath == "" {
		return fmt.Errorf("server.disk_path is required")
	}
	if cfg.Server.SampleInterval <= 0 {
		return fmt.Errorf("server.sample_interval must be positive")
	}
	if cfg.Server.ProcessInterval <= 0 {
		return fmt.Errorf("server.process_interval must be positive")
	}
	if cfg.Dashboard.BaseURL == "" {
		return fmt.Errorf("dashboard.base_url is required")
	}
	if cfg.Dashboard.PerformanceInterval <= 0 {
		return fmt.Errorf("dashboard.performance_interval must be positive")
	}
	if cfg.Dashboard.ProcessInterval <= 0 {
		return fmt.Errorf("dashboard.process_interval must be positive")
	}
	if cfg.Dashboard.RequestTimeout <= 0 {
		return fmt.Errorf("dashboard.request_timeout must be positive")
	}
	switch cfg.Dashboard.SortField {
	case "name", "cpu", "mem", "pid":
	default:
		return fmt.Errorf("dashboard.sort_field %q must be one of name, cpu, mem, pid", cfg.Dashboard.SortField)
	}
	return nil
}
