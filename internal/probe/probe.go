// Package probe provides ffprobe-based audio inspection for the per-file
// stats line. A single JSON call per file; failures are non-fatal for the
// run (the stats line is simply skipped).
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// AudioInfo holds the parsed properties of the primary audio stream.
type AudioInfo struct {
	Codec         string
	SampleRate    int
	Channels      int
	ChannelLayout string
	BitsPerSample int
	Duration      time.Duration
	Size          int64
}

// Probe runs a single ffprobe JSON call against path and returns the
// primary audio stream's properties.
func Probe(ctx context.Context, path string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into an AudioInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*AudioInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

type ffprobeStream struct {
	CodecType     string `json:"codec_type"`
	CodecName     string `json:"codec_name"`
	SampleRate    string `json:"sample_rate"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout"`
	BitsPerSample int    `json:"bits_per_sample"`
	// FLAC reports bit depth here instead of bits_per_sample.
	BitsPerRawSample string `json:"bits_per_raw_sample"`
}

// buildInfo extracts the first audio stream; no audio stream is an error.
func buildInfo(raw *ffprobeOutput) (*AudioInfo, error) {
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "audio" {
			continue
		}
		bits := s.BitsPerSample
		if bits == 0 {
			bits = parseInt(s.BitsPerRawSample)
		}
		return &AudioInfo{
			Codec:         s.CodecName,
			SampleRate:    parseInt(s.SampleRate),
			Channels:      s.Channels,
			ChannelLayout: s.ChannelLayout,
			BitsPerSample: bits,
			Duration:      time.Duration(parseFloat(raw.Format.Duration) * float64(time.Second)),
			Size:          parseInt64(raw.Format.Size),
		}, nil
	}
	return nil, fmt.Errorf("no audio stream found")
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
