package status

import (
	"fmt"
	"math"
	"strings"
)

const (
	hourUnit   = "ч"
	minuteUnit = "м"
)

// FormatDuration renders a minute count as "2 ч 5 м". Negative and
// non-finite input renders as zero minutes.
func FormatDuration(minutes float64) string {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "0 " + minuteUnit
	}

	hours := math.Floor(minutes / 60)
	// Half minutes round up, so 59.5 becomes "60 м" within the same hour.
	mins := math.Floor(math.Mod(minutes, 60) + 0.5)

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", int64(hours), hourUnit))
	}
	parts = append(parts, fmt.Sprintf("%d %s", int64(mins), minuteUnit))
	return strings.Join(parts, " ")
}
