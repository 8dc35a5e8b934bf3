// Package config holds the optional goforth.toml settings for the
// command-line front end.  Missing files yield the defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Heap struct {
		Limit int `toml:"limit"` // cells; 0 means unbounded
	} `toml:"heap"`

	REPL struct {
		Prompt string `toml:"prompt"`
		Boot   string `toml:"boot"` // auto-loaded at startup when present
	} `toml:"repl"`

	Trace struct {
		Enable bool `toml:"enable"`
	} `toml:"trace"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.REPL.Prompt = "ok> "
	cfg.REPL.Boot = "0.txt"
	return cfg
}

// LoadFrom reads the given TOML file over the defaults.  A missing file is
// not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
