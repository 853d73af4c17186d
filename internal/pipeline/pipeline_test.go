package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundmill/flacify/internal/config"
	"github.com/soundmill/flacify/internal/ffmpeg"
	"github.com/soundmill/flacify/internal/logging"
)

// --- Discover tests ---

func TestDiscover_MatchesExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.wav")
	touch(t, dir, "b.wav")
	touch(t, dir, "c.flac")
	touch(t, dir, "notes.txt")

	files, err := Discover(dir, ".wav", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.wav", "b.wav"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_CaseSensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.wav")
	touch(t, dir, "B.WAV")
	touch(t, dir, "c.Wav")

	files, err := Discover(dir, ".wav", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1 (extension match is case-sensitive)", len(files))
	}
}

func TestDiscover_FlatIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.wav")
	sub := filepath.Join(dir, "album")
	os.MkdirAll(sub, 0o755)
	touch(t, sub, "nested.wav")

	files, err := Discover(dir, ".wav", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1 (flat mode matches only the immediate directory)", len(files))
	}
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "b-album"), 0o755)
	os.MkdirAll(filepath.Join(dir, "a-album"), 0o755)
	touch(t, filepath.Join(dir, "b-album"), "02.wav")
	touch(t, filepath.Join(dir, "a-album"), "01.wav")
	touch(t, dir, "single.wav")

	files, err := Discover(dir, ".wav", true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Discover(dir, ".wav", false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		srcExt string
		dstExt string
		want   string
	}{
		{"wav to flac", "/music/a.wav", ".wav", ".flac", "/music/a.flac"},
		{"flac to wav", "/music/a.flac", ".flac", ".wav", "/music/a.wav"},
		{"nested", "/music/album/track 01.wav", ".wav", ".flac", "/music/album/track 01.flac"},
		{"dots in name", "/music/a.b.wav", ".wav", ".flac", "/music/a.b.flac"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.source, tt.srcExt, tt.dstExt); got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

// --- RunStats tests ---

func TestRunStats_SpaceSaved(t *testing.T) {
	s := RunStats{TotalInputBytes: 1000, TotalOutputBytes: 600}
	if got := s.SpaceSaved(); got != 400 {
		t.Errorf("SpaceSaved: got %d, want 400", got)
	}

	s2 := RunStats{TotalInputBytes: 100, TotalOutputBytes: 150}
	if got := s2.SpaceSaved(); got != -50 {
		t.Errorf("SpaceSaved (negative): got %d, want -50", got)
	}
}

func TestRunStats_RatioAndPercent(t *testing.T) {
	s := RunStats{TotalInputBytes: 1000, TotalOutputBytes: 600}
	if got := s.Ratio(); got != 0.6 {
		t.Errorf("Ratio: got %v, want 0.6", got)
	}
	if got := s.SavedPercent(); got != 40 {
		t.Errorf("SavedPercent: got %v, want 40", got)
	}

	empty := RunStats{}
	if got := empty.Ratio(); got != 0 {
		t.Errorf("Ratio with no input: got %v, want 0", got)
	}
	if got := empty.SavedPercent(); got != 0 {
		t.Errorf("SavedPercent with no input: got %v, want 0", got)
	}
}

func TestRunStats_HasCompressionData(t *testing.T) {
	tests := []struct {
		name  string
		stats RunStats
		want  bool
	}{
		{"converted with bytes", RunStats{Converted: 2, TotalInputBytes: 1000, TotalOutputBytes: 600}, true},
		{"nothing converted", RunStats{Skipped: 3}, false},
		{"dry run counts files but no bytes", RunStats{Converted: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.HasCompressionData(); got != tt.want {
				t.Errorf("HasCompressionData() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Run tests (fake converter, no ffmpeg) ---

// fakeConverter records tasks and simulates ffmpeg outcomes. The default
// behavior writes outputContent to the destination and reports success.
type fakeConverter struct {
	calls         []ffmpeg.Task
	outputContent []byte
	behave        func(task ffmpeg.Task) ffmpeg.Result
}

func (f *fakeConverter) Convert(_ context.Context, task ffmpeg.Task) ffmpeg.Result {
	f.calls = append(f.calls, task)
	if f.behave != nil {
		return f.behave(task)
	}
	if err := os.WriteFile(task.Output, f.outputContent, 0o644); err != nil {
		return ffmpeg.Result{Status: ffmpeg.StatusFailed, Err: err}
	}
	return ffmpeg.Result{Status: ffmpeg.StatusConverted}
}

func newTestConfig(dir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	cfg.ColorMode = config.ColorNever
	cfg.ShowFileStats = false // no ffprobe in unit tests
	return cfg
}

func newTestLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRun_ConvertsAndTracksBytes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wav", 1000)
	writeFile(t, dir, "b.wav", 1000)

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{outputContent: make([]byte, 400)}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Converted)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, int64(2000), stats.TotalInputBytes)
	assert.Equal(t, int64(800), stats.TotalOutputBytes)
	assert.FileExists(t, filepath.Join(dir, "a.flac"))
	assert.FileExists(t, filepath.Join(dir, "b.flac"))
}

func TestRun_CounterInvariant(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.wav", 100)
	writeFile(t, dir, "refused.wav", 100)
	writeFile(t, dir, "broken.wav", 100)

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{behave: func(task ffmpeg.Task) ffmpeg.Result {
		switch filepath.Base(task.Input) {
		case "refused.wav":
			return ffmpeg.Result{Status: ffmpeg.StatusSkippedExists, Stderr: "already exists"}
		case "broken.wav":
			return ffmpeg.Result{Status: ffmpeg.StatusFailed, Err: errors.New("exit status 1"), Stderr: "Invalid data"}
		default:
			os.WriteFile(task.Output, []byte("x"), 0o644)
			return ffmpeg.Result{Status: ffmpeg.StatusConverted}
		}
	}}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Converted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, stats.Total, stats.Converted+stats.Skipped+stats.Failed)

	// Byte totals only include the converted file.
	assert.Equal(t, int64(100), stats.TotalInputBytes)
}

func TestRun_StaleOutputSkipsWithoutInvocation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.wav", 100)
	writeFile(t, dir, "a.flac", 50)

	// Make the source strictly older than the destination.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Converted)
	assert.Empty(t, conv.calls, "no subprocess should be invoked for a stale-output skip")
}

func TestRun_OlderDestinationStillInvokes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wav", 100)
	dst := writeFile(t, dir, "a.flac", 50)

	// Destination exists but is older: the mtime pre-check passes and the
	// invoker's own -n refusal is what classifies the skip.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(dst, old, old))

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{behave: func(ffmpeg.Task) ffmpeg.Result {
		return ffmpeg.Result{Status: ffmpeg.StatusSkippedExists, Stderr: "File 'a.flac' already exists. Exiting."}
	}}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Len(t, conv.calls, 1, "older destination must still reach the invoker")
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
}

func TestRun_OverwriteBypassesStaleCheck(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.wav", 100)
	writeFile(t, dir, "a.flac", 50)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))

	cfg := newTestConfig(dir)
	cfg.Overwrite = true
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{outputContent: []byte("new")}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Len(t, conv.calls, 1)
	assert.Equal(t, 1, stats.Converted)
}

func TestRun_DeleteOriginal(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.wav", 100)

	cfg := newTestConfig(dir)
	cfg.DeleteOriginal = true
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{outputContent: make([]byte, 40)}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 1, stats.Converted)
	assert.NoFileExists(t, src, "source should be deleted after successful conversion")
	assert.FileExists(t, filepath.Join(dir, "a.flac"))
	// Sizes were read before deletion.
	assert.Equal(t, int64(100), stats.TotalInputBytes)
	assert.Equal(t, int64(40), stats.TotalOutputBytes)
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wav", 100)
	writeFile(t, dir, "b.wav", 100)

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{behave: func(task ffmpeg.Task) ffmpeg.Result {
		if filepath.Base(task.Input) == "a.wav" {
			return ffmpeg.Result{Status: ffmpeg.StatusFailed, Err: errors.New("exit status 1")}
		}
		os.WriteFile(task.Output, []byte("x"), 0o644)
		return ffmpeg.Result{Status: ffmpeg.StatusConverted}
	}}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Len(t, conv.calls, 2, "second file must still be attempted")
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Converted)
}

func TestRun_NoFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Converted+stats.Skipped+stats.Failed)
	assert.Empty(t, conv.calls)
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wav", 100)

	cfg := newTestConfig(dir)
	cfg.DryRun = true
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{}

	stats := Run(context.Background(), &cfg, log, conv)

	assert.Empty(t, conv.calls, "dry run must not invoke the converter")
	assert.Equal(t, 1, stats.Converted)
	assert.Zero(t, stats.TotalInputBytes, "dry run must not accumulate bytes")
	assert.NoFileExists(t, filepath.Join(dir, "a.flac"))
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.wav", 100)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(src, old, old))

	cfg := newTestConfig(dir)
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{outputContent: make([]byte, 40)}

	first := Run(context.Background(), &cfg, log, conv)
	require.Equal(t, 1, first.Converted)

	second := Run(context.Background(), &cfg, log, conv)

	assert.Equal(t, 0, second.Converted, "second run with overwrite off should convert nothing")
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, conv.calls, 1, "stale pre-check should prevent a second invocation")
}

func TestRun_DirectionSymmetry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wav", 100)
	writeFile(t, dir, "b.flac", 100)

	cfg := newTestConfig(dir)
	cfg.Direction = config.FlacToWav
	log := newTestLogger(t, &cfg)
	conv := &fakeConverter{outputContent: []byte("x")}

	stats := Run(context.Background(), &cfg, log, conv)

	require.Len(t, conv.calls, 1)
	assert.Equal(t, 1, stats.Total, "reverse direction must only match .flac sources")
	assert.Equal(t, filepath.Join(dir, "b.flac"), conv.calls[0].Input)
	assert.Equal(t, filepath.Join(dir, "b.wav"), conv.calls[0].Output)
	assert.True(t, conv.calls[0].ToWav)
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFile(t, dir, name, 0)
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
