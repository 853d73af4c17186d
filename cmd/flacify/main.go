// Command flacify is the CLI entrypoint for the batch WAV/FLAC converter.
//
// It parses flags (layered over an optional TOML config file), validates
// the input directory and the external ffmpeg dependency, and either runs
// system diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soundmill/flacify/internal/check"
	"github.com/soundmill/flacify/internal/config"
	"github.com/soundmill/flacify/internal/display"
	"github.com/soundmill/flacify/internal/ffmpeg"
	"github.com/soundmill/flacify/internal/logging"
	"github.com/soundmill/flacify/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()

	cfgPath, explicit := config.ConfigPath(os.Args[1:])
	if err := config.LoadFile(&cfg, cfgPath, explicit); err != nil {
		fmt.Fprintf(os.Stderr, "flacify: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "flacify: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "flacify: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flacify: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Input must exist and be a directory before any file is touched.
	fi, err := os.Stat(cfg.InputDir)
	if err != nil || !fi.IsDir() {
		log.Error("%s is not a valid directory", cfg.InputDir)
		return 1
	}

	// Fail fast if ffmpeg (and ffprobe, when needed) is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("%s", check.InstallHint)
		return 1
	}

	log.Info("=== flacify v%s (%s) ===", version, commit)
	log.Info("In: %s", cfg.InputDir)
	log.Info("")

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between files. The file in flight is left as
	// ffmpeg left it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run the pipeline. Per-file skips and errors are summarized
	// and do not change the exit code; only startup preconditions are fatal.
	pipeline.Run(ctx, &cfg, log, &ffmpeg.Runner{Cfg: &cfg})
	return 0
}
