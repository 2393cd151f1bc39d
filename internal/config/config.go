package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tonhe/sysglance/internal/logging"
)

type Config struct {
	Theme             string         `toml:"theme"`
	Dashboard         string         `toml:"dashboard"`
	CommandTimeout    time.Duration  `toml:"-"`
	CommandTimeoutStr string         `toml:"command_timeout"`
	Launcher          string         `toml:"launcher"`
	HistorySize       int            `toml:"history_size"`
	Log               logging.Config `toml:"log"`
	Journal           JournalConfig  `toml:"journal"`
}

// JournalConfig controls log retrieval.
type JournalConfig struct {
	Lines int `toml:"lines"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:             "solarized-dark",
		Dashboard:         "default",
		CommandTimeout:    5 * time.Second,
		CommandTimeoutStr: "5s",
		Launcher:          "pkexec",
		HistorySize:       60,
		Log:               logging.Config{Level: "info"},
		Journal:           JournalConfig{Lines: 200},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.CommandTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.CommandTimeoutStr)
		if err == nil && d > 0 {
			cfg.CommandTimeout = d
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults replaces zero or out-of-range values with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Dashboard == "" {
		c.Dashboard = def.Dashboard
	}
	if c.Launcher == "" {
		c.Launcher = def.Launcher
	}
	if c.HistorySize < 1 {
		c.HistorySize = def.HistorySize
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	switch {
	case c.Journal.Lines == 0:
		c.Journal.Lines = def.Journal.Lines
	case c.Journal.Lines < 50:
		c.Journal.Lines = 50
	case c.Journal.Lines > 1000:
		c.Journal.Lines = 1000
	}
}

func SaveConfig(cfg *Config, path string) error {
	cfg.CommandTimeoutStr = cfg.CommandTimeout.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
