package visitor

import "time"

// Stats summarizes daily traffic at the guard station. All counts are
// derived by a full re-scan of the record set.
type Stats struct {
	TotalToday      int `json:"totalToday"`
	CurrentlyInside int `json:"currentlyInside"`
	TotalOutToday   int `json:"totalOutToday"`
}

// Summarize computes daily traffic counts, with "today" evaluated against now.
func Summarize(visitors []*Visitor, now time.Time) Stats {
	var s Stats
	for _, v := range visitors {
		today := SameDay(now, v.CheckInTime)
		if today {
			s.TotalToday++
		}
		if v.Status == StatusIn {
			s.CurrentlyInside++
		}
		if v.Status == StatusOut && today {
			s.TotalOutToday++
		}
	}
	return s
}

// HourlyArrivals buckets today's check-ins by hour of day. The result always
// has 24 entries, index 0 = midnight.
func HourlyArrivals(visitors []*Visitor, now time.Time) [24]int {
	var slots [24]int
	for _, v := range visitors {
		if !SameDay(now, v.CheckInTime) {
			continue
		}
		slots[v.CheckInTime.In(now.Location()).Hour()]++
	}
	return slots
}
