package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ClientConfig configures the eisenhower CLI. The API section decides whether
// tasks live on the backend or only on this device.
type ClientConfig struct {
	API      APIConfig  `mapstructure:"api" yaml:"api"`
	User     UserConfig `mapstructure:"user" yaml:"user,omitempty"`
	DataPath string     `mapstructure:"data_path" yaml:"data_path,omitempty"`
}

type APIConfig struct {
	URL   string `mapstructure:"url" yaml:"url,omitempty"`
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// UserConfig remembers who the stored token belongs to.
type UserConfig struct {
	ID    string `mapstructure:"id" yaml:"id,omitempty"`
	Email string `mapstructure:"email" yaml:"email,omitempty"`
}

// RemoteConfigured reports whether both the API URL and a token are set.
func (c *ClientConfig) RemoteConfigured() bool {
	return c.API.URL != "" && c.API.Token != ""
}

// LoadClient reads the yaml file at path, if present, and applies the
// EISENHOWER_API_URL, EISENHOWER_API_TOKEN and EISENHOWER_DATA overrides.
func LoadClient(path string) (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("data_path", DefaultDataPath())

	_ = v.BindEnv("api.url", "EISENHOWER_API_URL")
	_ = v.BindEnv("api.token", "EISENHOWER_API_TOKEN")
	_ = v.BindEnv("data_path", "EISENHOWER_DATA")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveClient writes cfg to path, creating the directory if needed.
func SaveClient(path string, cfg *ClientConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// UpdateClient applies change to the config stored at path and writes it
// back. It starts from the file alone, so environment overrides and defaults
// are never written.
func UpdateClient(path string, change func(cfg *ClientConfig)) error {
	cfg := &ClientConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return err
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	change(cfg)
	return SaveClient(path, cfg)
}

func DefaultClientPath() string {
	return filepath.Join(homeDir(), ".eisenhower", "config.yaml")
}

func DefaultDataPath() string {
	return filepath.Join(homeDir(), ".eisenhower", "local.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
