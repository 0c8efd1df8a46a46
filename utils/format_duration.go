// Package utils collects small formatting and generic helpers shared
// by the CLI and the report dashboard.
package utils

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders d at a human scale: microseconds below a
// millisecond, milliseconds below a second, seconds below a minute,
// minutes+seconds below an hour, hours+minutes beyond that.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.0fs", int(d.Minutes()), math.Floor(math.Mod(d.Seconds(), 60)))
	default:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) - 60*hours
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
