// Package check provides system diagnostics (--check mode) and startup
// dependency validation (CheckDeps) for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/soundmill/flacify/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg is not installed or not in the system path")
	ErrFfmpegBroken    = errors.New("ffmpeg found but 'ffmpeg -version' failed")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH (needed for the stats line; use --no-stats to skip)")
)

// InstallHint is the second line of the startup diagnostic printed when a
// dependency is missing.
const InstallHint = "Please install ffmpeg and try again."

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CheckDeps is the startup validation: ffmpeg must be on PATH and answer a
// version query before any file is touched. ffprobe is only required when
// the per-file stats line is enabled. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.Command("ffmpeg", "-version").Output(); err != nil {
		return ErrFfmpegBroken
	}
	if cfg.ShowFileStats {
		if _, err := exec.LookPath("ffprobe"); err != nil {
			return ErrFfprobeNotFound
		}
	}
	return nil
}

// RunCheck runs the interactive --check flow: prints ffmpeg availability and
// version, lists FLAC and PCM encoders, and runs a short test encode.
// Informational only; returns false if ffmpeg itself is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	if !checkFfmpeg(log) {
		return false
	}
	checkLosslessEncoders(log)
	checkFlacEncode(log)
	if cfg.ShowFileStats {
		checkFfprobe(log)
	}
	return true
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return false
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkFfprobe verifies ffprobe is on PATH.
func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Warn("ffprobe not found (per-file stats line will be unavailable)")
		return
	}
	log.Success("ffprobe: found")
}

// checkLosslessEncoders lists FLAC and PCM encoders reported by ffmpeg.
func checkLosslessEncoders(log Logger) {
	log.Info("Lossless audio encoders:")
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "flac") || strings.Contains(lower, "pcm_s16le") || strings.Contains(lower, "pcm_s24le") {
			log.Info("  %s", strings.TrimSpace(line))
		}
	}
}

// checkFlacEncode runs a minimal sine-to-FLAC encode to verify the encoder works.
func checkFlacEncode(log Logger) {
	log.Info("Testing FLAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "flac", "-f", "null", "-",
	) {
		log.Success("FLAC encoder works")
	} else {
		log.Error("FLAC encoder test failed")
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
