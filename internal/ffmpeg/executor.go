package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/soundmill/flacify/internal/config"
)

// ExecResult holds the raw outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute builds and runs the ffmpeg command for a task, blocking until the
// process exits. When verbose, stderr is tee'd to os.Stderr in real time;
// otherwise it is captured silently for classification.
func Execute(ctx context.Context, cfg *config.Config, task Task) ExecResult {
	args := Build(cfg, task)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Classify turns a raw invocation result into a classified Result. A
// non-zero exit whose stderr carries the encoder's "already exists" refusal
// is a benign skip, not an error.
func Classify(res ExecResult) Result {
	if res.Err == nil {
		return Result{Status: StatusConverted, Stderr: res.Stderr}
	}
	if MatchAlreadyExists(res.Stderr) {
		return Result{Status: StatusSkippedExists, Stderr: res.Stderr}
	}
	return Result{Status: StatusFailed, Stderr: res.Stderr, Err: res.Err}
}

// Runner is the production converter: it invokes ffmpeg synchronously and
// classifies the outcome. It satisfies the pipeline's Converter interface.
type Runner struct {
	Cfg *config.Config
}

// Convert runs one task to completion.
func (r *Runner) Convert(ctx context.Context, task Task) Result {
	return Classify(Execute(ctx, r.Cfg, task))
}
