// File: internal/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/clipman-history/internal/fingerprint"
	"github.com/berrythewa/clipman-history/internal/types"
)

// Overridable for tests
var (
	getConfigPath     = defaultConfigPath
	getDefaultDataDir = defaultDataDir
	generateDeviceID  = func() string { return uuid.New().String() }
)

// ConfigPaths holds the directories the daemon writes to
type ConfigPaths struct {
	DataDir string `json:"data_dir" yaml:"data_dir"`
	LogDir  string `json:"log_dir" yaml:"log_dir"`
}

// Config holds all application configuration
type Config struct {
	DeviceID string `json:"device_id" yaml:"device_id"`
	// Hotkey is the popup shortcut, e.g. "Alt+V"
	Hotkey string `json:"hotkey" yaml:"hotkey"`

	SystemPaths ConfigPaths        `json:"system_paths" yaml:"system_paths"`
	Log         LogConfig          `json:"log" yaml:"log"`
	Storage     StorageConfig      `json:"storage" yaml:"storage"`
	Fingerprint fingerprint.Policy `json:"fingerprint" yaml:"fingerprint"`
	Query       QueryConfig        `json:"query" yaml:"query"`
	Capture     CaptureConfig      `json:"capture" yaml:"capture"`
	IPC         IPCConfig          `json:"ipc" yaml:"ipc"`
	Metrics     MetricsConfig      `json:"metrics" yaml:"metrics"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `json:"level" yaml:"level"`
	Format            string `json:"format" yaml:"format"` // "json" or "console"
	EnableFileLogging bool   `json:"enable_file_logging" yaml:"enable_file_logging"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	DBPath            string        `json:"db_path" yaml:"db_path"`
	Capacity          int           `json:"capacity" yaml:"capacity"`
	CompressThreshold int           `json:"compress_threshold" yaml:"compress_threshold"`
	OpenTimeout       time.Duration `json:"open_timeout" yaml:"open_timeout"`
	OpenRetries       int           `json:"open_retries" yaml:"open_retries"`
}

// QueryConfig bounds result sizes and the image encoding cache
type QueryConfig struct {
	DefaultLimit   int `json:"default_limit" yaml:"default_limit"`
	MaxLimit       int `json:"max_limit" yaml:"max_limit"`
	ImageCacheSize int `json:"image_cache_size" yaml:"image_cache_size"`
}

// CaptureConfig tunes the clipboard watcher
type CaptureConfig struct {
	PollInterval   time.Duration `json:"poll_interval" yaml:"poll_interval"`
	SuppressWindow time.Duration `json:"suppress_window" yaml:"suppress_window"`
	MaxContentSize int64         `json:"max_content_size" yaml:"max_content_size"`
	RatePerSecond  float64       `json:"rate_per_second" yaml:"rate_per_second"`
	SettleDelay    time.Duration `json:"settle_delay" yaml:"settle_delay"`
}

// IPCConfig holds the local socket settings
type IPCConfig struct {
	SocketPath string `json:"socket_path" yaml:"socket_path"`
}

// MetricsConfig controls the debug HTTP endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	dataDir, err := getDefaultDataDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), "clipman")
	}
	return defaultsFor(dataDir)
}

func defaultsFor(dataDir string) *Config {
	return &Config{
		DeviceID: generateDeviceID(),
		Hotkey:   "Alt+V",
		SystemPaths: ConfigPaths{
			DataDir: dataDir,
			LogDir:  filepath.Join(dataDir, "logs"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			DBPath:            filepath.Join(dataDir, "history.db"),
			Capacity:          500,
			CompressThreshold: 1024,
			OpenTimeout:       time.Second,
			OpenRetries:       3,
		},
		Fingerprint: fingerprint.DefaultPolicy(),
		Query: QueryConfig{
			DefaultLimit:   200,
			MaxLimit:       1000,
			ImageCacheSize: 128,
		},
		Capture: CaptureConfig{
			PollInterval:   500 * time.Millisecond,
			SuppressWindow: 2 * time.Second,
			MaxContentSize: 10 * 1024 * 1024, // 10MB
			RatePerSecond:  20,
			SettleDelay:    100 * time.Millisecond,
		},
		IPC: IPCConfig{
			SocketPath: filepath.Join(dataDir, "clipman.sock"),
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9465",
		},
	}
}

// Load reads the configuration file, creating it with defaults if it does not
// exist. A .env file next to the config or in the working directory is loaded
// before CLIPMAN_* overrides are applied.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	dataDir, err := getDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env"), ".env")

	cfg := defaultsFor(dataDir)
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Validate rejects settings the daemon cannot run with
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return types.Wrapf(types.ErrInvalidArgument, format, args...)
	}
	switch {
	case c.Storage.DBPath == "":
		return invalid("storage.db_path must be set")
	case c.Storage.Capacity < 1:
		return invalid("storage.capacity must be at least 1, got %d", c.Storage.Capacity)
	case c.Query.DefaultLimit < 1 || c.Query.MaxLimit < c.Query.DefaultLimit:
		return invalid("query limits must satisfy 1 <= default_limit <= max_limit")
	case c.IPC.SocketPath == "":
		return invalid("ipc.socket_path must be set")
	}
	switch c.Fingerprint.ImageBasis {
	case fingerprint.ImageBasisPixels, fingerprint.ImageBasisEncoded:
	default:
		return invalid("fingerprint.image_basis must be %q or %q", fingerprint.ImageBasisPixels, fingerprint.ImageBasisEncoded)
	}
	return nil
}

// Path returns the config file path used when none is given
func Path() (string, error) {
	return getConfigPath()
}

// PIDFile returns where the running daemon records its process id
func (c *Config) PIDFile() string {
	return filepath.Join(c.SystemPaths.DataDir, "clipman.pid")
}

func loadDotEnv(candidates ...string) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Variables already set in the environment win over the file
		_ = godotenv.Load(path)
	}
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("CLIPMAN_DEVICE_ID"); val != "" {
		config.DeviceID = val
	}
	if val := os.Getenv("CLIPMAN_HOTKEY"); val != "" {
		config.Hotkey = val
	}
	if val := os.Getenv("CLIPMAN_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("CLIPMAN_LOG_FORMAT"); val != "" {
		config.Log.Format = val
	}
	if val := os.Getenv("CLIPMAN_DB_PATH"); val != "" {
		config.Storage.DBPath = val
	}
	if val := os.Getenv("CLIPMAN_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Storage.Capacity = n
		}
	}
	if val := os.Getenv("CLIPMAN_SOCKET"); val != "" {
		config.IPC.SocketPath = val
	}
	if val := os.Getenv("CLIPMAN_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.Capture.PollInterval = d
		}
	}
	if val := os.Getenv("CLIPMAN_METRICS_ENABLED"); val != "" {
		config.Metrics.Enabled = val == "true"
	}
	if val := os.Getenv("CLIPMAN_METRICS_ADDR"); val != "" {
		config.Metrics.Addr = val
	}
}
