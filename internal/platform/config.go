package platform

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the content of a pph.yaml file. Zero values mean "not set".
type Config struct {
	Dir      string `yaml:"dir"`
	Adapter  string `yaml:"adapter"`
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
	ReadOnly *bool  `yaml:"read_only"`
}

// LoadConfig reads a YAML config file. A missing file yields an empty Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	switch cfg.Adapter {
	case "", AdapterFS, AdapterSQLite, AdapterMemory:
	default:
		return nil, fmt.Errorf("config %s: unknown adapter %q", path, cfg.Adapter)
	}
	return &cfg, nil
}

// Options converts the file settings into options. Flags applied later win.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if c.ReadOnly != nil {
		opts = append(opts, WithReadOnly(*c.ReadOnly))
	}
	return opts
}
