package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation
// otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatBytes formats a byte count using binary units.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatDigitCount renders a decimal digit count with a thousands hint for
// large values.
func FormatDigitCount(n int) string {
	if n < 10_000 {
		return fmt.Sprintf("%d digits", n)
	}
	return fmt.Sprintf("%d digits (~%.1fk)", n, float64(n)/1000)
}
