// Package visitor provides the visitor record domain model and the pure
// derivations over it: filters, search, statistics, and duration display.
package visitor

import "time"

// Status represents whether a visitor is still inside the village.
type Status string

const (
	StatusIn  Status = "IN"
	StatusOut Status = "OUT"
)

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	return s == StatusIn || s == StatusOut
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusIn:
		return "Inside"
	case StatusOut:
		return "Departed"
	default:
		return string(s)
	}
}

// Visitor represents one recorded visit to a house in the village.
// The ID is assigned by the remote store and is immutable once set, as is
// CheckInTime. CheckOutTime is set on checkout and cleared only by an
// explicit restore.
type Visitor struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IDNumber     string     `json:"idNumber"`
	LicensePlate string     `json:"licensePlate"`
	HouseNumber  string     `json:"houseNumber"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Status       Status     `json:"status"`
	Photo        string     `json:"photo,omitempty"`
	Purpose      string     `json:"purpose,omitempty"`
}

// IsOut reports whether the visitor has departed.
func (v *Visitor) IsOut() bool {
	return v.Status == StatusOut
}

// StatusConsistent reports whether the record satisfies the lifecycle
// invariant: Status is OUT exactly when a checkout time is recorded and is
// not earlier than the check-in time.
func (v *Visitor) StatusConsistent() bool {
	if v.Status == StatusOut {
		return v.CheckOutTime != nil && !v.CheckOutTime.Before(v.CheckInTime)
	}
	return v.CheckOutTime == nil
}

// Draft is an in-progress, not-yet-submitted visitor record composed by the
// guard. HouseNumber is the only field required before check-in.
type Draft struct {
	Name         string `json:"name"`
	IDNumber     string `json:"idNumber"`
	LicensePlate string `json:"licensePlate"`
	HouseNumber  string `json:"houseNumber"`
	Photo        string `json:"photo,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
}

// DefaultNamePlaceholder is stored when a guard submits a check-in without
// a name. A record never carries an empty name.
const DefaultNamePlaceholder = "unspecified"

// FallbackHouses is used when the remote house registry is unreachable or
// returns no entries.
var FallbackHouses = []string{
	"101/1", "101/2", "101/5", "102/10", "103/4", "105/1", "105/9",
}
