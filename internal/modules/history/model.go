// README: Interaction history aggregate; append-only log of widget interactions.
package history

import (
	"time"

	"voyago/internal/types"
)

// InteractionType is the fixed vocabulary of interaction tags recorded by the
// UI layer after acting on a routing decision.
type InteractionType string

const (
	// Lifecycle events.
	TypeWidgetShown      InteractionType = "widget_shown"
	TypeWidgetConfirmed  InteractionType = "widget_confirmed"
	TypeWidgetDismissed  InteractionType = "widget_dismissed"
	TypeTypedInstead     InteractionType = "typed_instead"
	TypeSelectedVariants InteractionType = "selected_variants"

	// Data-supplying events. These are what the provided-data detector and
	// the behavior model count as completions.
	TypeCitySelected          InteractionType = "city_selected"
	TypeDestinationSelected   InteractionType = "destination_selected"
	TypeDepartureCitySelected InteractionType = "departure_city_selected"
	TypeDateSelected          InteractionType = "date_selected"
	TypeTravelersSelected     InteractionType = "travelers_selected"
	TypeTripTypeConfirmed     InteractionType = "trip_type_confirmed"
	TypeStyleConfigured       InteractionType = "style_configured"
	TypeInterestsConfigured   InteractionType = "interests_configured"
	TypeMustHavesConfigured   InteractionType = "must_haves_configured"
	TypeDietaryConfigured     InteractionType = "dietary_configured"
)

// allTypes is used to validate incoming records; unknown tags are rejected at
// the HTTP boundary rather than silently stored.
var allTypes = map[InteractionType]struct{}{
	TypeWidgetShown: {}, TypeWidgetConfirmed: {}, TypeWidgetDismissed: {},
	TypeTypedInstead: {}, TypeSelectedVariants: {},
	TypeCitySelected: {}, TypeDestinationSelected: {}, TypeDepartureCitySelected: {},
	TypeDateSelected: {}, TypeTravelersSelected: {}, TypeTripTypeConfirmed: {},
	TypeStyleConfigured: {}, TypeInterestsConfigured: {}, TypeMustHavesConfigured: {},
	TypeDietaryConfigured: {},
}

// IsValidType reports whether t belongs to the fixed interaction vocabulary.
func IsValidType(t InteractionType) bool {
	_, ok := allTypes[t]
	return ok
}

// Record is one appended interaction. Records are never mutated in place.
type Record struct {
	ID          int64
	SessionID   types.ID
	WidgetKind  string
	Type        InteractionType
	Payload     map[string]any
	SummaryText string
	CreatedAt   time.Time
}
