// README: Flow state computer: derives routing facts from trip memory. Pure, no side effects.
package routing

import (
	"voyago/internal/modules/trip"
)

// FlowState is the set of facts the router derives from trip memory. It is a
// value object recomputed fresh on every access, never mutated.
type FlowState struct {
	HasDestination     bool
	HasDestinationCity bool
	HasDepartureCity   bool
	HasDepartureDate   bool
	HasReturnDate      bool
	HasTravelers       bool
	HasTripType        bool

	// TripType falls back to roundtrip when the user never stated one; the
	// HasTripType flag distinguishes the default from an explicit answer.
	TripType trip.TripType

	IsReadyToSearch bool
}

// ComputeFlowState derives a FlowState from trip memory. Total function:
// every memory value, including the zero value, maps to a valid state.
func ComputeFlowState(m trip.Memory) FlowState {
	s := FlowState{
		HasDestination:     m.Destination != "" || m.DestinationCity != "",
		HasDestinationCity: m.DestinationCity != "",
		HasDepartureCity:   m.DepartureCity != "",
		HasDepartureDate:   m.DepartureDate != nil,
		HasReturnDate:      m.ReturnDate != nil,
		// A zero-adult default never counts as "travelers known": children
		// cannot travel alone, so at least one adult must be collected.
		HasTravelers: m.Adults >= 1,
		HasTripType:  m.TripType != "",
		TripType:     m.TripType,
	}
	if s.TripType == "" {
		s.TripType = trip.TypeRoundtrip
	}

	returnOK := s.TripType == trip.TypeOneway || s.HasReturnDate
	s.IsReadyToSearch = s.HasDestinationCity && s.HasDepartureDate && returnOK && s.HasTravelers

	return s
}
