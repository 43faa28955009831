package visitor

import (
	"fmt"
	"time"
)

// Duration returns how long a visit has lasted. For a departed visitor the
// stored checkout time bounds the visit; for an active one the clock keeps
// running against now. A missing or inverted timestamp yields zero, never
// an error.
func Duration(v *Visitor, now time.Time) time.Duration {
	if v.CheckInTime.IsZero() {
		return 0
	}
	end := now
	if v.Status == StatusOut && v.CheckOutTime != nil {
		end = *v.CheckOutTime
	}
	d := end.Sub(v.CheckInTime)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders a visit duration as "1h 30m" or "45m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
