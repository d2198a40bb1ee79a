// README: Widget prerequisite table: per-kind validity rules over the flow state.
package routing

// Validation is the outcome of checking one widget kind against the current
// flow state. Never cached: flow state can change between turns.
type Validation struct {
	Valid           bool
	Reason          string
	SuggestedWidget WidgetKind
}

// prerequisites maps widget kinds to their validity rule. Entry widgets
// (city, date, travelers) have no rule: they are themselves the means of
// satisfying a later prerequisite. Kinds without an entry default to valid.
var prerequisites = map[WidgetKind]func(FlowState) Validation{
	WidgetReturnDatePicker: func(s FlowState) Validation {
		if !s.HasDepartureDate {
			return Validation{
				Reason:          "return date needs a departure date first",
				SuggestedWidget: WidgetDateRangePicker,
			}
		}
		return Validation{Valid: true}
	},
	WidgetTripTypeConfirm: func(s FlowState) Validation {
		if !s.HasTravelers {
			return Validation{
				Reason:          "traveler count must be known before confirming trip type",
				SuggestedWidget: WidgetTravelersSelector,
			}
		}
		return Validation{Valid: true}
	},
	WidgetConfirmBeforeSearch: func(s FlowState) Validation {
		if !s.IsReadyToSearch {
			return Validation{Reason: "trip is not ready to search"}
		}
		return Validation{Valid: true}
	},
	WidgetAirportConfirm: func(s FlowState) Validation {
		if !s.IsReadyToSearch {
			return Validation{Reason: "trip is not ready to search"}
		}
		return Validation{Valid: true}
	},
}

// Validate checks a widget kind against the flow state. Unknown kinds are
// permitted: a new widget must never be silently blocked by a missing rule.
func Validate(kind WidgetKind, s FlowState) Validation {
	rule, ok := prerequisites[kind]
	if !ok {
		return Validation{Valid: true}
	}
	return rule(s)
}
