// README: Provided-data detector: was a widget's data already supplied via a prior widget?
package routing

import (
	"voyago/internal/modules/history"
)

// providedBy maps a widget kind to the interaction types that count as "this
// data was already supplied via a widget". Kinds with no entry (preference
// widgets, comparison, filters) are repeatable by design and never count as
// already provided.
var providedBy = map[WidgetKind][]history.InteractionType{
	WidgetCitySelector:          {history.TypeCitySelected, history.TypeDestinationSelected},
	WidgetDepartureCitySelector: {history.TypeDepartureCitySelected},
	WidgetSingleDatePicker:      {history.TypeDateSelected},
	WidgetDateRangePicker:       {history.TypeDateSelected},
	WidgetReturnDatePicker:      {history.TypeDateSelected},
	WidgetTravelersSelector:     {history.TypeTravelersSelected},
	WidgetTripTypeConfirm:       {history.TypeTripTypeConfirmed},
}

// HasAlreadyProvided reports whether the interaction history shows the data a
// candidate widget would collect was already supplied via some widget, even
// if trip memory has not caught up yet.
func HasAlreadyProvided(records []history.Record, kind WidgetKind) bool {
	types, ok := providedBy[kind]
	if !ok {
		return false
	}
	for _, r := range records {
		for _, t := range types {
			if r.Type == t {
				return true
			}
		}
	}
	return false
}
