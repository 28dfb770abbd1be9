package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 5555
	DefaultConnectDelay = 2 * time.Second
)

// Environment overrides, applied after the config file.
const (
	EnvADB          = "ADBWIFI_ADB"
	EnvPort         = "ADBWIFI_PORT"
	EnvConnectDelay = "ADBWIFI_CONNECT_DELAY"
)

// DeviceConfig stores per-device settings.
type DeviceConfig struct {
	Nickname string `yaml:"nickname,omitempty"`
	WiFiIP   string `yaml:"wifi_ip,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	ADBPath      string                  `yaml:"adb_path"`
	Port         int                     `yaml:"port"`
	ConnectDelay time.Duration           `yaml:"connect_delay"`
	Devices      map[string]DeviceConfig `yaml:"devices,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADBPath:      "adb",
		Port:         DefaultPort,
		ConnectDelay: DefaultConnectDelay,
		Devices:      make(map[string]DeviceConfig),
	}
}

// ConfigDir returns the config directory path. It fails rather than
// falling back to a relative path when no home directory is known.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adbwifi"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(home, ".config", "adbwifi"), nil
}

// ConfigPath returns the config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file, returning defaults if it doesn't exist,
// then applies .env and environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file without environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Devices == nil {
		cfg.Devices = make(map[string]DeviceConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Update applies fn to the config file on disk, leaving environment
// overrides out of what gets written.
func Update(fn func(*Config)) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	fn(cfg)
	return SaveFile(path, cfg)
}

// SetWiFiIP records the last known wireless address of a device.
func (c *Config) SetWiFiIP(serial, ip string) {
	if c.Devices == nil {
		c.Devices = make(map[string]DeviceConfig)
	}
	dc := c.Devices[serial]
	dc.WiFiIP = ip
	c.Devices[serial] = dc
}

// Nickname returns the device nickname, or "" if none is set.
func (c *Config) Nickname(serial string) string {
	return c.Devices[serial].Nickname
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvADB); v != "" {
		c.ADBPath = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvConnectDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConnectDelay, err)
		}
		c.ConnectDelay = d
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ConnectDelay < 0 {
		return fmt.Errorf("invalid connect delay %s", c.ConnectDelay)
	}
	if c.ADBPath == "" {
		c.ADBPath = "adb"
	}
	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
