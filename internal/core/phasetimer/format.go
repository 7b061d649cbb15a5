package phasetimer

import (
	"fmt"
	"time"
)

// FormatRemaining renders a duration as M:SS, rounding down to the second.
// Minutes are not padded: 25:00, 4:59, 0:00.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	totalSeconds := int64(remaining / time.Second)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// Fraction returns remaining/total clamped to [0, 1].
func Fraction(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	value := float64(remaining) / float64(total)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
