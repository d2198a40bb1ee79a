// README: Unified router: one routing decision per conversational turn.
package routing

import (
	"voyago/internal/ai"
	"voyago/internal/modules/history"
	"voyago/internal/modules/trip"
)

// Action is the non-widget outcome of a routing decision.
type Action string

const (
	ActionNone     Action = "none"
	ActionSearch   Action = "search"
	ActionDelegate Action = "delegate"
	ActionClarify  Action = "clarify"
)

// Decision is the single output of one routing turn. Exactly one of
// WidgetKind or a non-none Action is meaningful; both set is invalid.
type Decision struct {
	ShouldShowWidget bool
	WidgetKind       WidgetKind
	WidgetData       map[string]any
	Action           Action
	Reason           string
}

// Callbacks are the router's only side effects, supplied by the caller.
// Nil callbacks are skipped.
type Callbacks struct {
	OnWidgetTriggered func(kind WidgetKind, data map[string]any)
	OnSearchTriggered func()
	OnDelegateChoice  func()
}

// Config tunes the router's thresholds.
type Config struct {
	// LowConfidence gates clarification (boosted scale, 0-100).
	LowConfidence int
}

// Turn bundles the per-turn inputs the router reads but does not own.
type Turn struct {
	Memory               trip.Memory
	Records              []history.Record
	LastUserMessage      string
	LastAssistantMessage string
}

// Router ties flow state, prerequisites, cooldowns, provided-data detection,
// behavior inference, and confidence reconciliation into one decision per
// turn. It never panics and never returns an error: every input, including a
// nil intent, maps to a Decision.
type Router struct {
	cfg       Config
	cooldown  *CooldownTracker
	callbacks Callbacks
}

func NewRouter(cfg Config, cooldown *CooldownTracker, callbacks Callbacks) *Router {
	if cfg.LowConfidence <= 0 {
		cfg.LowConfidence = 40
	}
	if cooldown == nil {
		cooldown = NewCooldownTracker(nil)
	}
	return &Router{cfg: cfg, cooldown: cooldown, callbacks: callbacks}
}

// Cooldown exposes the tracker so the caller can record interaction events
// and persist snapshots. The tracker remains the sole owner of its records.
func (r *Router) Cooldown() *CooldownTracker {
	return r.cooldown
}

// widgetTriggering intents warrant surfacing the next required widget even
// without an explicit classifier suggestion.
var widgetTriggering = map[string]struct{}{
	ai.IntentProvideDestination: {},
	ai.IntentProvideDates:       {},
	ai.IntentProvideDuration:    {},
	ai.IntentFlexibleDates:      {},
	ai.IntentProvideTravelers:   {},
	ai.IntentSpecifyComposition: {},
	ai.IntentConfirmSelection:   {},
	ai.IntentExpressPreference:  {},
	ai.IntentExpressConstraint:  {},
}

// ProcessIntent runs the decision algorithm for one turn. Steps short-circuit
// in order: nil intent, undecided delegation, low-confidence clarification,
// search/delegate actions, the classifier's declared widget (with suggested
// and next-required fallbacks), preference keyword override, and finally the
// next required widget for data-providing intents.
func (r *Router) ProcessIntent(turn Turn, intent *ai.ClassifiedIntent) Decision {
	if intent == nil {
		return Decision{Action: ActionNone}
	}

	state := ComputeFlowState(turn.Memory)
	behavior := InferBehavior(turn.Records)
	boost := BoostConfidence(intent, turn.LastUserMessage, turn.LastAssistantMessage)

	if boost.SuggestedIntent == ai.IntentDelegateChoice {
		r.fireDelegate()
		return Decision{Action: ActionDelegate, Reason: "user is undecided"}
	}

	if boost.BoostedConfidence < r.cfg.LowConfidence && boost.ShouldClarify {
		reason := intent.ClarificationQuestion
		if reason == "" {
			reason = GenericClarification(boost.Language)
		}
		return Decision{Action: ActionClarify, Reason: reason}
	}

	switch intent.PrimaryIntent {
	case ai.IntentTriggerSearch:
		r.fireSearch()
		return Decision{Action: ActionSearch}
	case ai.IntentDelegateChoice:
		r.fireDelegate()
		return Decision{Action: ActionDelegate}
	}

	// The classifier's declared widget, then its suggested alternative, then
	// the next required widget. This precedence is deliberate; do not
	// reorder it.
	if intent.WidgetToShow != nil && intent.WidgetToShow.Kind != "" {
		kind := WidgetKind(intent.WidgetToShow.Kind)
		v := Validate(kind, state)
		if v.Valid {
			if d, ok := r.emit(turn, behavior, kind, intent.WidgetToShow.Data, intent.WidgetToShow.Reason); ok {
				return d
			}
		} else {
			fallback := v.SuggestedWidget
			if fallback == "" {
				fallback = r.NextRequiredWidget(state, turn.Records)
			}
			if fallback != "" {
				if d, ok := r.emit(turn, behavior, fallback, nil, v.Reason); ok {
					return d
				}
			}
		}
	}

	// Explicit preference statements ("I'm vegetarian") bypass classifier
	// misses via the language-matched keyword tables; entity-based
	// equivalents take the same path.
	if intent.PrimaryIntent == ai.IntentExpressPreference || intent.PrimaryIntent == ai.IntentExpressConstraint {
		kind, matched := MatchPreferenceKeyword(turn.LastUserMessage, boost.Language)
		if kind == "" {
			kind, matched = matchPreferenceEntities(intent.Entities)
		}
		if kind != "" && Validate(kind, state).Valid {
			if d, ok := r.emit(turn, behavior, kind, nil, matched); ok {
				return d
			}
		}
	}

	if _, ok := widgetTriggering[intent.PrimaryIntent]; ok {
		if next := r.NextRequiredWidget(state, turn.Records); next != "" {
			if d, ok := r.emit(turn, behavior, next, entityWidgetData(intent.Entities), ""); ok {
				return d
			}
		}
	}

	return Decision{Action: ActionNone}
}

// NextRequiredWidget walks the data-collection priority order and returns the
// first widget whose data is neither in trip memory nor already supplied via
// a prior widget interaction. Returns "" when nothing is required.
func (r *Router) NextRequiredWidget(state FlowState, records []history.Record) WidgetKind {
	type step struct {
		kind   WidgetKind
		needed bool
	}

	datePicker := WidgetDateRangePicker
	if state.TripType == trip.TypeOneway {
		datePicker = WidgetSingleDatePicker
	}

	steps := []step{
		{WidgetCitySelector, !state.HasDestinationCity},
		{datePicker, !state.HasDepartureDate},
		// The return-date step fires only for an explicitly confirmed
		// roundtrip: with the type still defaulted we ask for travelers and
		// trip type first rather than presume a second date.
		{WidgetReturnDatePicker, state.HasTripType && state.TripType == trip.TypeRoundtrip &&
			state.HasDepartureDate && !state.HasReturnDate},
		{WidgetTravelersSelector, !state.HasTravelers},
		{WidgetTripTypeConfirm, !state.HasTripType},
		{WidgetConfirmBeforeSearch, state.IsReadyToSearch},
	}

	for _, s := range steps {
		if !s.needed {
			continue
		}
		if HasAlreadyProvided(records, s.kind) {
			continue
		}
		return s.kind
	}
	return ""
}

// CanShowWidget is the read-only query other UI logic uses (e.g. to gray out
// a manual "show widget" button): prerequisite validity plus cooldown state.
func (r *Router) CanShowWidget(kind WidgetKind, state FlowState) Validation {
	v := Validate(kind, state)
	if !v.Valid {
		return v
	}
	if reason := r.cooldown.BlockReason(kind); reason != BlockNone {
		return Validation{Reason: string(reason)}
	}
	return Validation{Valid: true}
}

// emit applies the cross-cutting checks every candidate widget must pass:
// not already provided, not cooldown-blocked, not suppressed for this user.
func (r *Router) emit(turn Turn, behavior Behavior, kind WidgetKind, data map[string]any, reason string) (Decision, bool) {
	if HasAlreadyProvided(turn.Records, kind) {
		return Decision{}, false
	}
	if !r.cooldown.CanShow(kind) {
		return Decision{}, false
	}
	if !behavior.AllowsWidget(kind) {
		return Decision{}, false
	}
	if r.callbacks.OnWidgetTriggered != nil {
		r.callbacks.OnWidgetTriggered(kind, data)
	}
	return Decision{
		ShouldShowWidget: true,
		WidgetKind:       kind,
		WidgetData:       data,
		Action:           ActionNone,
		Reason:           reason,
	}, true
}

func (r *Router) fireSearch() {
	if r.callbacks.OnSearchTriggered != nil {
		r.callbacks.OnSearchTriggered()
	}
}

func (r *Router) fireDelegate() {
	if r.callbacks.OnDelegateChoice != nil {
		r.callbacks.OnDelegateChoice()
	}
}

// matchPreferenceEntities maps classifier-extracted preference entities onto
// the same widgets the keyword tables target.
func matchPreferenceEntities(e ai.Entities) (WidgetKind, string) {
	switch {
	case len(e.DietaryRestrictions) > 0:
		return WidgetDietary, e.DietaryRestrictions[0]
	case len(e.Accessibility) > 0:
		return WidgetMustHaves, e.Accessibility[0]
	case len(e.Interests) > 0:
		return WidgetInterests, e.Interests[0]
	case e.TravelStyle != "":
		return WidgetStyle, e.TravelStyle
	}
	return "", ""
}

// entityWidgetData carries loose entities (month, duration, country) forward
// into the widget so the UI can pre-fill it.
func entityWidgetData(e ai.Entities) map[string]any {
	data := map[string]any{}
	if e.Month != "" {
		data["month"] = e.Month
	}
	if e.DurationDays > 0 {
		data["durationDays"] = e.DurationDays
	}
	if e.DestinationCountry != "" {
		data["country"] = e.DestinationCountry
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
