package display

import (
	"fmt"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatDuration renders elapsed wall-clock time with magnitude-dependent
// units: "12.34 seconds", "2 minutes 3.40 seconds", or
// "1 hours 2 minutes 3.40 seconds".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 60:
		return fmt.Sprintf("%.2f seconds", secs)
	case secs < 3600:
		minutes := int(secs) / 60
		remainder := secs - float64(minutes*60)
		return fmt.Sprintf("%d minutes %.2f seconds", minutes, remainder)
	default:
		hours := int(secs) / 3600
		minutes := (int(secs) % 3600) / 60
		remainder := secs - float64(hours*3600) - float64(minutes*60)
		return fmt.Sprintf("%d hours %d minutes %.2f seconds", hours, minutes, remainder)
	}
}

// FormatClock renders an audio duration as m:ss or h:mm:ss for the per-file
// stats line.
func FormatClock(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
