// README: Widget kind enumeration; the closed set of interactive elements the router can surface.
package routing

// WidgetKind identifies one interactive widget the chat UI can render in
// place of free text.
type WidgetKind string

const (
	WidgetCitySelector          WidgetKind = "citySelector"
	WidgetDepartureCitySelector WidgetKind = "departureCitySelector"
	WidgetSingleDatePicker      WidgetKind = "singleDatePicker"
	WidgetDateRangePicker       WidgetKind = "dateRangePicker"
	WidgetReturnDatePicker      WidgetKind = "returnDatePicker"
	WidgetTravelersSelector     WidgetKind = "travelersSelector"
	WidgetTripTypeConfirm       WidgetKind = "tripTypeConfirm"
	WidgetConfirmBeforeSearch   WidgetKind = "travelersConfirmBeforeSearch"
	WidgetAirportConfirm        WidgetKind = "airportConfirm"
	WidgetStyle                 WidgetKind = "styleWidget"
	WidgetInterests             WidgetKind = "interestsWidget"
	WidgetMustHaves             WidgetKind = "mustHavesWidget"
	WidgetDietary               WidgetKind = "dietaryWidget"
	WidgetQuickFilters          WidgetKind = "quickFilters"
	WidgetComparison            WidgetKind = "comparisonWidget"
	WidgetConflict              WidgetKind = "conflictWidget"
	WidgetPriceAlert            WidgetKind = "priceAlertWidget"
)

// AllWidgetKinds lists every known kind in a stable order (used by the
// cooldown summary and by exhaustiveness tests).
var AllWidgetKinds = []WidgetKind{
	WidgetCitySelector,
	WidgetDepartureCitySelector,
	WidgetSingleDatePicker,
	WidgetDateRangePicker,
	WidgetReturnDatePicker,
	WidgetTravelersSelector,
	WidgetTripTypeConfirm,
	WidgetConfirmBeforeSearch,
	WidgetAirportConfirm,
	WidgetStyle,
	WidgetInterests,
	WidgetMustHaves,
	WidgetDietary,
	WidgetQuickFilters,
	WidgetComparison,
	WidgetConflict,
	WidgetPriceAlert,
}

// criticalWidgets are always eligible regardless of the inferred user style:
// without them the flow cannot progress at all.
var criticalWidgets = map[WidgetKind]struct{}{
	WidgetCitySelector:          {},
	WidgetDepartureCitySelector: {},
	WidgetSingleDatePicker:      {},
	WidgetDateRangePicker:       {},
	WidgetReturnDatePicker:      {},
	WidgetTravelersSelector:     {},
}

// IsCritical reports whether kind belongs to the always-shown allowlist.
func IsCritical(kind WidgetKind) bool {
	_, ok := criticalWidgets[kind]
	return ok
}
