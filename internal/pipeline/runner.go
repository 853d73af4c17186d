// Package pipeline orchestrates file discovery, the per-file admission
// policy, conversion, and batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soundmill/flacify/internal/config"
	"github.com/soundmill/flacify/internal/display"
	"github.com/soundmill/flacify/internal/ffmpeg"
	"github.com/soundmill/flacify/internal/logging"
	"github.com/soundmill/flacify/internal/probe"
)

// Converter runs one conversion task to completion and classifies the
// outcome. Defined here (rather than importing the ffmpeg runner type) so
// the subprocess heuristic stays behind a narrow seam and the runner is
// testable with a fake.
type Converter interface {
	Convert(ctx context.Context, task ffmpeg.Task) ffmpeg.Result
}

// Run is the top-level batch entry point. It discovers candidate files,
// processes each one sequentially, and returns aggregate stats. Per-file
// failures never abort the batch; only discovery failure does.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, conv Converter) RunStats {
	var stats RunStats
	start := time.Now()

	sourceExt := cfg.Direction.SourceExt()
	targetExt := cfg.Direction.TargetExt()

	files, err := Discover(cfg.InputDir, sourceExt, cfg.Recursive)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Elapsed = time.Since(start)
		return stats
	}

	stats.Total = len(files)
	if stats.Total == 0 {
		suffix := ""
		if cfg.Recursive {
			suffix = " and its subdirectories"
		}
		log.Warn("No %s files found in %s%s", sourceExt, cfg.InputDir, suffix)
		stats.Elapsed = time.Since(start)
		return stats
	}

	logBatchHeader(cfg, log, &stats, sourceExt, targetExt)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		processFile(ctx, cfg, log, conv, path, targetExt, &stats)
	}

	stats.Elapsed = time.Since(start)
	logSummary(log, &stats)
	return stats
}

// processFile handles one source file: stale-output pre-check → ensure
// destination parent → convert → bookkeeping. The pre-check (mtime
// comparison) and the invoker's own refusal (plain existence, via -n) are
// deliberately separate predicates; both are part of observed behavior.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	conv Converter,
	path string,
	targetExt string,
	stats *RunStats,
) {
	basename := filepath.Base(path)
	output := OutputPath(path, cfg.Direction.SourceExt(), targetExt)

	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	srcInfo, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		stats.Failed++
		fmt.Println()
		return
	}

	if cfg.ShowFileStats {
		logFileStats(ctx, log, path)
	}

	// --- Stale-output pre-check (no subprocess spawned) ---
	if !cfg.Overwrite {
		if outInfo, err := os.Stat(output); err == nil && outInfo.ModTime().After(srcInfo.ModTime()) {
			log.Warn("Skip (output exists and is newer): %s", filepath.Base(output))
			stats.Skipped++
			fmt.Println()
			return
		}
	}

	// --- Ensure destination parent exists ---
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		stats.Failed++
		fmt.Println()
		return
	}

	log.Info("  -> %s", filepath.Base(output))

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would convert")
		stats.Converted++
		fmt.Println()
		return
	}

	// --- Convert ---
	fileStart := time.Now()
	res := conv.Convert(ctx, ffmpeg.Task{
		Input:  path,
		Output: output,
		ToWav:  cfg.Direction == config.FlacToWav,
	})

	switch res.Status {
	case ffmpeg.StatusSkippedExists:
		log.Warn("Skip (output exists): %s", filepath.Base(output))
		stats.Skipped++
		fmt.Println()
		return

	case ffmpeg.StatusFailed:
		log.Error("Conversion failed: %s", basename)
		logStderr(log, res.Stderr)
		stats.Failed++
		fmt.Println()
		return
	}

	// --- Bookkeeping: read both sizes first, delete the source after, so
	// the compression summary stays well-defined when --delete is set. ---
	var outSize int64
	outInfo, statErr := os.Stat(output)
	if statErr == nil {
		outSize = outInfo.Size()
	}

	inSize := srcInfo.Size()
	stats.TotalInputBytes += inSize
	stats.TotalOutputBytes += outSize
	stats.Converted++

	ratio := int64(100)
	if inSize > 0 {
		ratio = outSize * 100 / inSize
	}
	log.Success("Converted in %s (%d%% of original)",
		display.FormatDuration(time.Since(fileStart)), ratio)

	if cfg.DeleteOriginal && statErr == nil {
		if err := os.Remove(path); err != nil {
			log.Warn("Could not delete %s: %v", path, err)
		} else {
			log.Info("Deleted original: %s", basename)
		}
	}
	fmt.Println()
}

// logFileStats probes the source and logs one audio summary line. Probe
// failure is non-fatal; the line is simply skipped.
func logFileStats(ctx context.Context, log *logging.Logger, path string) {
	info, err := probe.Probe(ctx, path)
	if err != nil {
		return
	}
	bits := "n/a"
	if info.BitsPerSample > 0 {
		bits = fmt.Sprintf("%d-bit", info.BitsPerSample)
	}
	log.Info("  Audio: %s | %d Hz | %dch | %s | %s",
		info.Codec, info.SampleRate, info.Channels, bits,
		display.FormatClock(info.Duration))
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats, sourceExt, targetExt string) {
	log.Info("Converting %d %s files to %s...", stats.Total, sourceExt, targetExt)
	if cfg.Overwrite {
		log.Info("Overwrite: existing destinations will be replaced")
	}
	if cfg.DeleteOriginal {
		log.Info("Delete: originals are removed after successful conversion")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}
	fmt.Println()
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Conversion summary:")
	log.Info("  Converted: %d", stats.Converted)
	log.Info("  Skipped: %d", stats.Skipped)
	log.Info("  Errors: %d", stats.Failed)
	log.Info("  Total: %d", stats.Total)
	log.Info("  Execution time: %s", display.FormatDuration(stats.Elapsed))

	if !stats.HasCompressionData() {
		return
	}

	saved := stats.SpaceSaved()
	log.Info("Compression statistics:")
	log.Info("  Total original size: %s", display.FormatBytes(stats.TotalInputBytes))
	log.Info("  Total converted size: %s", display.FormatBytes(stats.TotalOutputBytes))
	if saved >= 0 {
		log.Success("  Space saved: %s (%.1f%%)",
			display.FormatBytes(saved), stats.SavedPercent())
	} else {
		log.Warn("  Space increased: %s (%.1f%%)",
			display.FormatBytes(-saved), -stats.SavedPercent())
	}
	log.Info("  Compression ratio: %.2f", stats.Ratio())
}
