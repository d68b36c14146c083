package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// RemainingDuration returns "{h}h {m}m remaining" until targetISO, or "" once
// the target has passed.
func RemainingDuration(targetISO string, now time.Time) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = TimeNotAvailable
		}
	}()

	if strings.TrimSpace(targetISO) == "" {
		return NotAvailable
	}
	target, ok := ParseTimestamp(targetISO)
	if !ok {
		return TimeNotAvailable
	}
	diff := target.Sub(now)
	if diff < 0 {
		return ""
	}
	return formatHoursMinutes(diff) + " remaining"
}

// ElapsedDuration returns "{h}h {m}m" between startISO and endISO.
// An end before the start is treated as unavailable.
func ElapsedDuration(startISO, endISO string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = DurationNotAvailable
		}
	}()

	start, ok := ParseTimestamp(startISO)
	if !ok {
		return DurationNotAvailable
	}
	end, ok := ParseTimestamp(endISO)
	if !ok {
		return DurationNotAvailable
	}
	diff := end.Sub(start)
	if diff < 0 {
		return DurationNotAvailable
	}
	return formatHoursMinutes(diff)
}

func formatHoursMinutes(d time.Duration) string {
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
