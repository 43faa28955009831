package visitor

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	got := Summarize(testRecords(), fixedNow)
	want := Stats{TotalToday: 2, CurrentlyInside: 2, TotalOutToday: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil, fixedNow); got != (Stats{}) {
		t.Errorf("Summarize(nil) = %+v, want zero stats", got)
	}
}

func TestHourlyArrivals(t *testing.T) {
	records := []*Visitor{
		{ID: "1", CheckInTime: time.Date(2025, 6, 15, 8, 10, 0, 0, time.UTC)},
		{ID: "2", CheckInTime: time.Date(2025, 6, 15, 8, 45, 0, 0, time.UTC)},
		{ID: "3", CheckInTime: time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)},
		// Yesterday: excluded.
		{ID: "4", CheckInTime: time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC)},
	}

	slots := HourlyArrivals(records, fixedNow)
	if slots[8] != 2 {
		t.Errorf("slots[8] = %d, want 2", slots[8])
	}
	if slots[13] != 1 {
		t.Errorf("slots[13] = %d, want 1", slots[13])
	}

	total := 0
	for _, n := range slots {
		total += n
	}
	if total != 3 {
		t.Errorf("total arrivals = %d, want 3", total)
	}
}
