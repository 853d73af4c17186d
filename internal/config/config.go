// Package config holds runtime configuration: defaults, the optional TOML
// config file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"strings"
)

// --- Enum types for validated string fields ---

// Direction selects which way files are converted.
type Direction string

const (
	WavToFlac Direction = "wav2flac" // Convert .wav sources to .flac (default).
	FlacToWav Direction = "flac2wav" // Convert .flac sources back to .wav.
)

// SourceExt returns the file extension matched for input candidates.
func (d Direction) SourceExt() string {
	if d == FlacToWav {
		return ".flac"
	}
	return ".wav"
}

// TargetExt returns the file extension written for outputs.
func (d Direction) TargetExt() string {
	if d == FlacToWav {
		return ".wav"
	}
	return ".flac"
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally layered with a TOML config file, and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Path (set from the positional arg).
	InputDir string

	// Conversion behavior.
	Direction      Direction
	Recursive      bool
	DeleteOriginal bool // Delete source after successful conversion.
	Overwrite      bool // Force overwrite of existing destinations.
	DryRun         bool

	// Display and logging.
	Verbose       bool
	ShowFileStats bool      // Default: true. Per-file ffprobe stats line.
	ColorMode     ColorMode // Default: "auto".
	LogFile       string    // Optional log file path.
	ConfigFile    string    // Optional explicit TOML config path.
	CheckOnly     bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [LoadFile] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Direction:     WavToFlac,
		ShowFileStats: true,
		ColorMode:     ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields hold valid values. When not in CheckOnly
// mode, it also requires an input directory.
func (c *Config) Validate() error {
	switch c.Direction {
	case WavToFlac, FlacToWav:
		// valid
	default:
		return errors.New("invalid direction (use 'wav2flac' or 'flac2wav')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need an input directory")
	}
	return nil
}
