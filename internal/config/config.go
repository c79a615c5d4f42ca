// Package config loads an optional YAML configuration that sizes a
// pool and names a table file. Neither cmd/relcore nor cmd/bench reads
// it (both take their settings from command-line flags), and the
// storage kernel itself never requires a config file.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/relcore/relcore/internal/bufferpool"
)

// Config is the top-level shape of a relcore YAML config file:
//
//	storage:
//	  data_dir: ./data
//	  table: orders.tbl
//	buffer:
//	  num_frames: 64
//	  policy: lru
type Config struct {
	Storage struct {
		DataDir string `mapstructure:"data_dir"`
		Table   string `mapstructure:"table"`
	} `mapstructure:"storage"`
	Buffer struct {
		NumFrames int    `mapstructure:"num_frames"`
		Policy    string `mapstructure:"policy"`
	} `mapstructure:"buffer"`
}

// Policy returns the configured replacement policy as a
// bufferpool.Policy, defaulting to FIFO when unset.
func (c *Config) Policy() bufferpool.Policy {
	if c.Buffer.Policy == "" {
		return bufferpool.FIFO
	}
	return bufferpool.Policy(c.Buffer.Policy)
}

// Load reads and unmarshals the YAML config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if cfg.Buffer.NumFrames <= 0 {
		cfg.Buffer.NumFrames = 16
	}

	return &cfg, nil
}
