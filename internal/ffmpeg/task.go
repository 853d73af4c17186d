// Package ffmpeg builds and executes the ffmpeg command for a single
// conversion and classifies its outcome. The "already exists" stderr
// sniffing lives here, behind [Classify], so the heuristic is replaceable
// without touching the pipeline.
package ffmpeg

// Task describes one conversion: source, destination, and direction.
// Created by the pipeline during traversal and consumed exactly once.
type Task struct {
	Input  string
	Output string
	ToWav  bool // FLAC→WAV when true, WAV→FLAC otherwise.
}

// Status classifies the outcome of one invocation.
type Status int

const (
	StatusConverted     Status = iota
	StatusSkippedExists        // Encoder refused to overwrite the destination.
	StatusFailed
)

// Result is the classified outcome plus the captured diagnostic text.
type Result struct {
	Status Status
	Stderr string
	Err    error
}
