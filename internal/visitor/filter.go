package visitor

import (
	"sort"
	"strings"
	"time"
)

// DashboardFilter selects which slice of the record set the dashboard shows.
type DashboardFilter string

const (
	DashboardToday  DashboardFilter = "today"
	DashboardInside DashboardFilter = "inside"
	DashboardOut    DashboardFilter = "out"
)

// IsValid checks if a dashboard filter is recognized.
func (f DashboardFilter) IsValid() bool {
	switch f {
	case DashboardToday, DashboardInside, DashboardOut:
		return true
	}
	return false
}

// ListFilter selects a status bucket in the management-list context.
type ListFilter string

const (
	ListIn  ListFilter = "in"
	ListOut ListFilter = "out"
	ListAll ListFilter = "all"
)

// IsValid checks if a list filter is recognized.
func (f ListFilter) IsValid() bool {
	switch f {
	case ListIn, ListOut, ListAll:
		return true
	}
	return false
}

// SameDay reports whether two timestamps fall on the same calendar day in
// the same location as a.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// SortByCheckInDesc orders visitors most recent check-in first. The sort is
// stable so ties keep their incoming order.
func SortByCheckInDesc(visitors []*Visitor) {
	sort.SliceStable(visitors, func(i, j int) bool {
		return visitors[i].CheckInTime.After(visitors[j].CheckInTime)
	})
}

// Dashboard returns the subset of visitors selected by a dashboard filter,
// with "today" evaluated against now.
func Dashboard(visitors []*Visitor, filter DashboardFilter, now time.Time) []*Visitor {
	var out []*Visitor
	for _, v := range visitors {
		switch filter {
		case DashboardToday:
			if SameDay(now, v.CheckInTime) {
				out = append(out, v)
			}
		case DashboardInside:
			if v.Status == StatusIn {
				out = append(out, v)
			}
		case DashboardOut:
			if v.Status == StatusOut && SameDay(now, v.CheckInTime) {
				out = append(out, v)
			}
		}
	}
	return out
}

// Listing returns the management-list view: a status bucket optionally
// narrowed by a case-insensitive substring query over name, license plate,
// and house number. The OUT bucket restricts to today's check-ins whenever
// no query is active, so departed history stays searchable without flooding
// the default view.
func Listing(visitors []*Visitor, filter ListFilter, query string, now time.Time) []*Visitor {
	list := visitors
	if filter != ListAll {
		want := StatusIn
		if filter == ListOut {
			want = StatusOut
		}
		var kept []*Visitor
		for _, v := range list {
			if v.Status == want {
				kept = append(kept, v)
			}
		}
		list = kept
	}

	if filter == ListOut && query == "" {
		var kept []*Visitor
		for _, v := range list {
			if SameDay(now, v.CheckInTime) {
				kept = append(kept, v)
			}
		}
		list = kept
	}

	return Search(list, query)
}

// Search filters visitors by a case-insensitive substring match against
// name, license plate, and house number. An empty query returns the input
// unchanged.
func Search(visitors []*Visitor, query string) []*Visitor {
	if query == "" {
		return visitors
	}
	q := strings.ToLower(query)
	var out []*Visitor
	for _, v := range visitors {
		if strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(v.LicensePlate), q) ||
			strings.Contains(strings.ToLower(v.HouseNumber), q) {
			out = append(out, v)
		}
	}
	return out
}

// FindByID returns the visitor with the given ID, or nil.
func FindByID(visitors []*Visitor, id string) *Visitor {
	for _, v := range visitors {
		if v.ID == id {
			return v
		}
	}
	return nil
}
