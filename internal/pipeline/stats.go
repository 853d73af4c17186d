package pipeline

import "time"

// RunStats tracks aggregate counters and byte totals across a batch run.
// It is owned by Run and threaded through the loop by pointer; byte totals
// only accumulate over successfully converted files.
type RunStats struct {
	Total            int
	Current          int
	Converted        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Elapsed          time.Duration
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// Ratio returns output/input across converted files, or 0 when nothing was
// converted.
func (s *RunStats) Ratio() float64 {
	if s.TotalInputBytes <= 0 {
		return 0
	}
	return float64(s.TotalOutputBytes) / float64(s.TotalInputBytes)
}

// SavedPercent returns the percentage of space saved (negative when output
// grew), or 0 when no input bytes were recorded.
func (s *RunStats) SavedPercent() float64 {
	if s.TotalInputBytes <= 0 {
		return 0
	}
	return (1 - s.Ratio()) * 100
}

// HasCompressionData reports whether the run produced byte totals worth
// summarizing. Dry runs count converted files without accumulating bytes,
// so the converted counter alone is not enough.
func (s *RunStats) HasCompressionData() bool {
	return s.Converted > 0 && s.TotalInputBytes > 0
}
