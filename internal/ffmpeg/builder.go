package ffmpeg

import (
	"github.com/soundmill/flacify/internal/config"
)

// Build constructs the complete ffmpeg argument slice for one task. The only
// semantic variation is the direction (WAV→FLAC forces the FLAC encoder;
// FLAC→WAV leaves the output format implicit from the .wav extension) and
// the overwrite policy (-y forces, -n refuses and exits non-zero).
func Build(cfg *config.Config, task Task) []string {
	args := make([]string, 0, 12)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin")

	// Overwrite policy. Must precede the output path: ffmpeg ignores
	// options trailing the last output file, and with -nostdin a leftover
	// prompt becomes an unconditional "already exists" refusal.
	if cfg.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	// Loglevel: info when verbose, otherwise error.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", task.Input)

	// --- Audio codec ---
	if !task.ToWav {
		args = append(args, "-c:a", "flac")
	}

	// --- Output ---
	args = append(args, task.Output)

	return args
}
