// README: Trip memory aggregate: every field collected so far for one planning session.
package trip

import (
	"time"

	"voyago/internal/types"
)

type TripType string

const (
	TypeRoundtrip TripType = "roundtrip"
	TypeOneway    TripType = "oneway"
	TypeMulti     TripType = "multi"
)

// Memory is the mutable record of trip data collected across a session.
// A zero-value Memory (only SessionID set) is a brand-new session.
type Memory struct {
	SessionID types.ID

	Destination     string
	DestinationCity string
	DepartureCity   string

	DepartureDate *time.Time
	ReturnDate    *time.Time

	Adults   int
	Children int

	// TripType is empty until the user states or confirms one.
	TripType TripType

	UpdatedAt time.Time
}

// HasDestinationCity reports whether a concrete city (not just a country or
// region) has been collected.
func (m Memory) HasDestinationCity() bool {
	return m.DestinationCity != ""
}
