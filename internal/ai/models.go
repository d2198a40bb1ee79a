package ai

// Intent tags produced by the classifier. The router treats anything outside
// this vocabulary as conversational filler.
const (
	IntentProvideDestination = "provide_destination"
	IntentProvideDates       = "provide_dates"
	IntentProvideDuration    = "provide_duration"
	IntentFlexibleDates      = "flexible_dates"
	IntentProvideTravelers   = "provide_travelers"
	IntentSpecifyComposition = "specify_composition"
	IntentConfirmSelection   = "confirm_selection"
	IntentExpressPreference  = "express_preference"
	IntentExpressConstraint  = "express_constraint"
	IntentTriggerSearch      = "trigger_search"
	IntentDelegateChoice     = "delegate_choice"
	IntentChat               = "chat"
)

// Entities is the bag of structured values extracted from a user message.
// Every field is optional; absence means "not mentioned this turn".
type Entities struct {
	Destination         string   `json:"destination,omitempty"`
	DestinationCountry  string   `json:"destination_country,omitempty"`
	DepartureCity       string   `json:"departure_city,omitempty"`
	DepartureDate       string   `json:"departure_date,omitempty"` // YYYY-MM-DD
	ReturnDate          string   `json:"return_date,omitempty"`    // YYYY-MM-DD
	Month               string   `json:"month,omitempty"`
	DurationDays        int      `json:"duration_days,omitempty"`
	Adults              int      `json:"adults,omitempty"`
	Children            int      `json:"children,omitempty"`
	TripType            string   `json:"trip_type,omitempty"` // roundtrip | oneway | multi
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Accessibility       []string `json:"accessibility,omitempty"`
	Interests           []string `json:"interests,omitempty"`
	TravelStyle         string   `json:"travel_style,omitempty"`
}

// WidgetSuggestion is the classifier's opinion about which widget to show.
// The routing engine validates it before acting on it.
type WidgetSuggestion struct {
	Kind   string         `json:"kind"`
	Data   map[string]any `json:"data,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// ClassifiedIntent captures the structured output from the AI model for one
// user turn.
type ClassifiedIntent struct {
	PrimaryIntent    string   `json:"primary_intent"`
	SecondaryIntents []string `json:"secondary_intents,omitempty"`

	// Confidence is the classifier's self-reported score in [0,100].
	// The routing engine recomputes an effective confidence before using it.
	Confidence int `json:"confidence"`

	Entities Entities `json:"entities"`

	// WidgetToShow is nullable; most turns carry no suggestion.
	WidgetToShow *WidgetSuggestion `json:"widget_to_show,omitempty"`

	// ClarificationQuestion is set when the classifier itself wants to ask
	// the user something before committing to an intent.
	ClarificationQuestion string `json:"clarification_question,omitempty"`

	// Reply is a short conversational response to the user.
	Reply string `json:"reply"`
}
