package config

// Optional TOML config file support. Values from the file sit between
// built-in defaults and CLI flags. Bool fields are pointers so an absent
// key leaves the default untouched.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the subset of Config that makes sense to persist.
type fileConfig struct {
	Recursive *bool   `toml:"recursive"`
	Delete    *bool   `toml:"delete"`
	ToWav     *bool   `toml:"to_wav"`
	Overwrite *bool   `toml:"overwrite"`
	ShowStats *bool   `toml:"show_stats"`
	Verbose   *bool   `toml:"verbose"`
	Color     *string `toml:"color"`
	Log       *string `toml:"log"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/flacify/config.toml, falling
// back to ~/.config per the XDG spec. Empty string if no home is known.
func defaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "flacify", "config.toml")
}

// LoadFile decodes the TOML file at path into cfg. A missing file is an
// error only when the path was given explicitly via --config; the default
// XDG location is allowed to be absent.
func LoadFile(cfg *Config, path string, explicit bool) error {
	if path == "" {
		if explicit {
			return errors.New("--config requires a file path")
		}
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return nil
	}

	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	apply(cfg, &fc)
	return nil
}

func apply(cfg *Config, fc *fileConfig) {
	if fc.Recursive != nil {
		cfg.Recursive = *fc.Recursive
	}
	if fc.Delete != nil {
		cfg.DeleteOriginal = *fc.Delete
	}
	if fc.ToWav != nil && *fc.ToWav {
		cfg.Direction = FlacToWav
	}
	if fc.Overwrite != nil {
		cfg.Overwrite = *fc.Overwrite
	}
	if fc.ShowStats != nil {
		cfg.ShowFileStats = *fc.ShowStats
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Color != nil {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	if fc.Log != nil {
		cfg.LogFile = *fc.Log
	}
}
