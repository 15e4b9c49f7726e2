package protocol

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as zero-padded MM:SS. Minutes are not capped.
// NaN, infinite and negative inputs render as "00:00".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}
	minutes := int64(math.Floor(seconds / 60))
	secs := int64(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
