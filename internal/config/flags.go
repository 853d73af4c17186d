package config

// This file implements CLI flag parsing and help text.
// Negated flags (e.g. --no-stats) are applied after Parse so Config defaults
// (and config-file values) hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// arg). Flag values take precedence over config-file values because the
// flag defaults are seeded from the already-layered cfg.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("flacify", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var negated negatedFlags

	defineConversionFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "flacify v"+version)
		os.Exit(0)
	}

	if err := parsePositionalArgs(fs, cfg); err != nil {
		printUsage(fs, version)
		return err
	}
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noStats -> ShowFileStats=false),
// select an enum (toWav -> Direction), or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	toWav       bool
	noStats     bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers -r/--recursive, -d/--delete, -w/--to-wav,
// -o/--overwrite, --dry-run.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.Recursive, "recursive", cfg.Recursive, "Recursively process subdirectories")
	fs.BoolVar(&cfg.Recursive, "r", cfg.Recursive, "Same as --recursive")
	fs.BoolVar(&cfg.DeleteOriginal, "delete", cfg.DeleteOriginal, "Delete originals after conversion")
	fs.BoolVar(&cfg.DeleteOriginal, "d", cfg.DeleteOriginal, "Same as --delete")
	fs.BoolVar(&n.toWav, "to-wav", false, "Convert FLAC to WAV instead of WAV to FLAC")
	fs.BoolVar(&n.toWav, "w", false, "Same as --to-wav")
	fs.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Overwrite existing destination files")
	fs.BoolVar(&cfg.Overwrite, "o", cfg.Overwrite, "Same as --overwrite")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Preview only; do not run ffmpeg")
}

// defineDisplayFlags registers --no-stats, --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noStats, "no-stats", false, "Hide the per-file audio stats line")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output (full ffmpeg log)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --config, --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to TOML config file")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "Run ffmpeg diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", cfg.CheckOnly, "Same as --check")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.toWav {
		cfg.Direction = FlacToWav
	}
	if n.noStats {
		cfg.ShowFileStats = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir from the single positional arg when not
// in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input directory")
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 26 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "flacify v" + version + " — batch WAV/FLAC converter (ffmpeg)"},
		{"", ""},
		{"  flacify [OPTIONS] <input_dir>", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -r, --recursive", "Recursively process subdirectories"},
		{"  -d, --delete", "Delete originals after successful conversion"},
		{"  -w, --to-wav", "Convert FLAC to WAV (default: WAV to FLAC)"},
		{"  -o, --overwrite", "Overwrite existing destination files"},
		{"  --dry-run", "Preview only; do not run ffmpeg"},
		{"", ""},
		{"Display", ""},
		{"  --no-stats", "Hide the per-file audio stats line"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (full ffmpeg log)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --config <path>", "TOML config file (default: XDG config dir)"},
		{"  -c, --check", "ffmpeg diagnostics (version, FLAC/PCM encoders)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// ConfigPath pre-scans raw CLI args for --config so the file can be loaded
// before flag parsing (file values must sit under flag values). Returns the
// explicit path and true, or the default XDG location and false.
func ConfigPath(args []string) (path string, explicit bool) {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1], true
			}
			// Valueless --config: still explicit, so LoadFile reports it
			// instead of silently falling back to the XDG default.
			return "", true
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config="), true
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config="), true
		}
	}
	return defaultConfigPath(), false
}
