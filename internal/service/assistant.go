package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"voyago/internal/ai"
	"voyago/internal/config"
	"voyago/internal/maps"
	"voyago/internal/modules/history"
	"voyago/internal/modules/routing"
	"voyago/internal/modules/trip"
	"voyago/internal/types"
)

// TripMemory is the slice of the trip service the assistant needs.
type TripMemory interface {
	Get(ctx context.Context, sessionID types.ID) (trip.Memory, error)
	Apply(ctx context.Context, sessionID types.ID, p trip.Patch) (trip.Memory, error)
	Reset(ctx context.Context, sessionID types.ID) error
}

// InteractionLog is the slice of the history service the assistant needs.
type InteractionLog interface {
	Append(ctx context.Context, r *history.Record) error
	List(ctx context.Context, sessionID types.ID) ([]history.Record, error)
}

// CooldownRepository persists per-session cooldown snapshots.
type CooldownRepository interface {
	Load(ctx context.Context, sessionID types.ID) (routing.CooldownSnapshot, error)
	Save(ctx context.Context, sessionID types.ID, snap routing.CooldownSnapshot) error
	Clear(ctx context.Context, sessionID types.ID) error
}

// CitySuggester pre-fills selector widget data. Optional: a nil suggester
// just means widgets open without suggestions.
type CitySuggester interface {
	SuggestCities(ctx context.Context, query, language string, limit int) ([]maps.City, error)
	SuggestAirports(ctx context.Context, city, language string, limit int) ([]maps.City, error)
}

// UsageLimiter guards the classifier budget. Optional.
type UsageLimiter interface {
	UseToken(ctx context.Context, uid string) error
}

// Assistant orchestrates one conversational turn: classify, update trip
// memory, route to a widget or action, and close the interaction loop.
type Assistant struct {
	classifier ai.LLMProvider
	trips      TripMemory
	log        InteractionLog
	cooldowns  CooldownRepository
	cities     CitySuggester
	usage      UsageLimiter
	cfg        config.RoutingConfig
}

// NewAssistant wires the assistant's collaborators. cities and usage may be nil.
func NewAssistant(
	classifier ai.LLMProvider,
	trips TripMemory,
	interactions InteractionLog,
	cooldowns CooldownRepository,
	cities CitySuggester,
	usage UsageLimiter,
	cfg config.RoutingConfig,
) *Assistant {
	return &Assistant{
		classifier: classifier,
		trips:      trips,
		log:        interactions,
		cooldowns:  cooldowns,
		cities:     cities,
		usage:      usage,
		cfg:        cfg,
	}
}

// TurnResult is what one user message produces.
type TurnResult struct {
	Reply    string               `json:"reply"`
	Decision routing.Decision     `json:"decision"`
	Intent   *ai.ClassifiedIntent `json:"intent,omitempty"`
}

// HandleTurn processes one user message end to end. Collaborator failures
// downgrade: a classifier error becomes a clarification, a Redis error loses
// at most one session's cooldown state. Only store failures on the critical
// read path surface as errors.
func (a *Assistant) HandleTurn(ctx context.Context, sessionID types.ID, message string) (*TurnResult, error) {
	if a.usage != nil {
		if err := a.usage.UseToken(ctx, string(sessionID)); err != nil {
			return nil, err
		}
	}

	mem, err := a.trips.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load trip memory: %w", err)
	}
	records, err := a.log.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load interaction history: %w", err)
	}

	lang := routing.DetectLanguage(message)

	intent, err := a.classifier.ClassifyIntent(ctx, message, map[string]string{
		"current_date":        time.Now().Format("2006-01-02"),
		"trip_state":          describeMemory(mem),
		"interaction_summary": history.Summarize(records, 10),
	})
	if err != nil {
		log.Printf("classifier error (session %s): %v", sessionID, err)
		reason := routing.GenericClarification(lang)
		return &TurnResult{
			Reply:    reason,
			Decision: routing.Decision{Action: routing.ActionClarify, Reason: reason},
		}, nil
	}

	if updated, err := a.trips.Apply(ctx, sessionID, entitiesToPatch(intent.Entities)); err != nil {
		log.Printf("apply entities (session %s): %v", sessionID, err)
	} else {
		mem = updated
	}

	tracker := routing.NewCooldownTracker(nil)
	snap, err := a.cooldowns.Load(ctx, sessionID)
	if err != nil {
		log.Printf("load cooldowns (session %s): %v", sessionID, err)
	} else {
		tracker.Restore(snap)
	}

	// Typing while a widget is on screen counts against that widget; the
	// tracker's 30s window filters out unrelated typing.
	if last := tracker.LastShown(); last != "" {
		tracker.RecordTypedInstead(last)
	}

	router := routing.NewRouter(routing.Config{LowConfidence: a.cfg.LowConfidence}, tracker, routing.Callbacks{
		OnSearchTriggered: func() { log.Printf("search triggered (session %s)", sessionID) },
		OnDelegateChoice:  func() { log.Printf("choice delegated (session %s)", sessionID) },
	})

	decision := router.ProcessIntent(routing.Turn{
		Memory:          mem,
		Records:         records,
		LastUserMessage: message,
	}, intent)

	if decision.ShouldShowWidget {
		tracker.RecordShown(decision.WidgetKind)
		decision.WidgetData = a.enrichWidgetData(ctx, decision, intent, message, lang)

		if err := a.log.Append(ctx, &history.Record{
			SessionID:   sessionID,
			WidgetKind:  string(decision.WidgetKind),
			Type:        history.TypeWidgetShown,
			SummaryText: fmt.Sprintf("shown %s", decision.WidgetKind),
		}); err != nil {
			log.Printf("append interaction (session %s): %v", sessionID, err)
		}
	}

	if err := a.cooldowns.Save(ctx, sessionID, tracker.Snapshot()); err != nil {
		log.Printf("save cooldowns (session %s): %v", sessionID, err)
	}

	reply := intent.Reply
	if decision.Action == routing.ActionClarify {
		reply = decision.Reason
	}
	if reply == "" {
		reply = routing.GenericClarification(lang)
	}

	return &TurnResult{Reply: reply, Decision: decision, Intent: intent}, nil
}

// InteractionCommand records what the user did with a rendered widget.
type InteractionCommand struct {
	SessionID  types.ID
	WidgetKind routing.WidgetKind
	Type       history.InteractionType
	Payload    map[string]any
	Summary    string
}

// RecordInteraction appends the interaction, updates the cooldown record for
// the widget, and folds any supplied data back into trip memory.
func (a *Assistant) RecordInteraction(ctx context.Context, cmd InteractionCommand) error {
	if err := a.log.Append(ctx, &history.Record{
		SessionID:   cmd.SessionID,
		WidgetKind:  string(cmd.WidgetKind),
		Type:        cmd.Type,
		Payload:     cmd.Payload,
		SummaryText: cmd.Summary,
	}); err != nil {
		return err
	}

	tracker := routing.NewCooldownTracker(nil)
	if snap, err := a.cooldowns.Load(ctx, cmd.SessionID); err != nil {
		log.Printf("load cooldowns (session %s): %v", cmd.SessionID, err)
	} else {
		tracker.Restore(snap)
	}

	switch cmd.Type {
	case history.TypeWidgetShown:
		tracker.RecordShown(cmd.WidgetKind)
	case history.TypeWidgetDismissed:
		tracker.RecordDismissed(cmd.WidgetKind)
	case history.TypeTypedInstead:
		tracker.RecordTypedInstead(cmd.WidgetKind)
	default:
		// Every data-supplying type settles its widget.
		tracker.RecordConfirmed(cmd.WidgetKind)
	}

	if err := a.cooldowns.Save(ctx, cmd.SessionID, tracker.Snapshot()); err != nil {
		log.Printf("save cooldowns (session %s): %v", cmd.SessionID, err)
	}

	if patch, ok := payloadToPatch(cmd.Type, cmd.Payload); ok {
		if _, err := a.trips.Apply(ctx, cmd.SessionID, patch); err != nil {
			return fmt.Errorf("apply widget payload: %w", err)
		}
	}
	return nil
}

// NextWidget is the read-only "what would the router ask for next" query.
func (a *Assistant) NextWidget(ctx context.Context, sessionID types.ID) (routing.WidgetKind, error) {
	mem, err := a.trips.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	records, err := a.log.List(ctx, sessionID)
	if err != nil {
		return "", err
	}
	router, err := a.sessionRouter(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return router.NextRequiredWidget(routing.ComputeFlowState(mem), records), nil
}

// CanShow reports prerequisite validity plus cooldown state for one kind.
func (a *Assistant) CanShow(ctx context.Context, sessionID types.ID, kind routing.WidgetKind) (routing.Validation, error) {
	mem, err := a.trips.Get(ctx, sessionID)
	if err != nil {
		return routing.Validation{}, err
	}
	router, err := a.sessionRouter(ctx, sessionID)
	if err != nil {
		return routing.Validation{}, err
	}
	return router.CanShowWidget(kind, routing.ComputeFlowState(mem)), nil
}

// CooldownSummary returns the diagnostic listing of blocked widgets.
func (a *Assistant) CooldownSummary(ctx context.Context, sessionID types.ID) (string, error) {
	router, err := a.sessionRouter(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return router.Cooldown().Summary(), nil
}

// ResetSession clears trip memory and cooldown state for a fresh start. The
// interaction log is append-only and is deliberately kept.
func (a *Assistant) ResetSession(ctx context.Context, sessionID types.ID) error {
	if err := a.trips.Reset(ctx, sessionID); err != nil {
		return err
	}
	return a.cooldowns.Clear(ctx, sessionID)
}

func (a *Assistant) sessionRouter(ctx context.Context, sessionID types.ID) (*routing.Router, error) {
	tracker := routing.NewCooldownTracker(nil)
	snap, err := a.cooldowns.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	tracker.Restore(snap)
	return routing.NewRouter(routing.Config{LowConfidence: a.cfg.LowConfidence}, tracker, routing.Callbacks{}), nil
}

// enrichWidgetData adds Places suggestions to city and airport widgets.
// Best effort: lookup failures are logged and the widget opens empty.
func (a *Assistant) enrichWidgetData(ctx context.Context, decision routing.Decision, intent *ai.ClassifiedIntent, message string, lang routing.Language) map[string]any {
	data := decision.WidgetData
	if a.cities == nil {
		return data
	}

	langTag := "en"
	if lang == routing.LangFrench {
		langTag = "fr"
	}

	switch decision.WidgetKind {
	case routing.WidgetCitySelector:
		query := intent.Entities.Destination
		if query == "" {
			query = intent.Entities.DestinationCountry
		}
		if query == "" {
			query = message
		}
		cities, err := a.cities.SuggestCities(ctx, query, langTag, 5)
		if err != nil {
			log.Printf("city suggestions: %v", err)
			return data
		}
		data = withSuggestions(data, cities)
	case routing.WidgetAirportConfirm:
		city := intent.Entities.Destination
		if city == "" {
			city = message
		}
		airports, err := a.cities.SuggestAirports(ctx, city, langTag, 3)
		if err != nil {
			log.Printf("airport suggestions: %v", err)
			return data
		}
		data = withSuggestions(data, airports)
	}
	return data
}

func withSuggestions(data map[string]any, cities []maps.City) map[string]any {
	if len(cities) == 0 {
		return data
	}
	if data == nil {
		data = map[string]any{}
	}
	suggestions := make([]map[string]any, 0, len(cities))
	for _, c := range cities {
		suggestions = append(suggestions, map[string]any{
			"name":    c.Name,
			"address": c.Address,
			"placeId": c.PlaceID,
		})
	}
	data["suggestions"] = suggestions
	return data
}

// describeMemory renders the trip state for the classifier's context window.
func describeMemory(m trip.Memory) string {
	parts := []string{}
	if m.DestinationCity != "" {
		parts = append(parts, "destination_city="+m.DestinationCity)
	} else if m.Destination != "" {
		parts = append(parts, "destination="+m.Destination)
	}
	if m.DepartureCity != "" {
		parts = append(parts, "departure_city="+m.DepartureCity)
	}
	if m.DepartureDate != nil {
		parts = append(parts, "departure_date="+m.DepartureDate.Format("2006-01-02"))
	}
	if m.ReturnDate != nil {
		parts = append(parts, "return_date="+m.ReturnDate.Format("2006-01-02"))
	}
	if m.Adults > 0 {
		parts = append(parts, fmt.Sprintf("adults=%d children=%d", m.Adults, m.Children))
	}
	if m.TripType != "" {
		parts = append(parts, "trip_type="+string(m.TripType))
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

// entitiesToPatch converts classifier entities into a trip memory patch.
func entitiesToPatch(e ai.Entities) trip.Patch {
	p := trip.Patch{
		Destination:   e.Destination,
		DepartureCity: e.DepartureCity,
		Adults:        e.Adults,
		Children:      e.Children,
	}
	// A classifier destination is a city only when it is not just a country.
	if e.Destination != "" && e.Destination != e.DestinationCountry {
		p.DestinationCity = e.Destination
	}
	if t, err := time.Parse("2006-01-02", e.DepartureDate); err == nil {
		p.DepartureDate = &t
	}
	if t, err := time.Parse("2006-01-02", e.ReturnDate); err == nil {
		p.ReturnDate = &t
	}
	switch e.TripType {
	case string(trip.TypeRoundtrip), string(trip.TypeOneway), string(trip.TypeMulti):
		p.TripType = trip.TripType(e.TripType)
	}
	return p
}

// payloadToPatch folds a widget interaction payload into trip memory.
// Returns false for lifecycle events that carry no trip data.
func payloadToPatch(t history.InteractionType, payload map[string]any) (trip.Patch, bool) {
	var p trip.Patch
	switch t {
	case history.TypeCitySelected, history.TypeDestinationSelected:
		p.DestinationCity = stringVal(payload, "city")
		p.Destination = stringVal(payload, "city")
	case history.TypeDepartureCitySelected:
		p.DepartureCity = stringVal(payload, "city")
	case history.TypeDateSelected:
		if t, err := time.Parse("2006-01-02", stringVal(payload, "departure_date")); err == nil {
			p.DepartureDate = &t
		}
		if t, err := time.Parse("2006-01-02", stringVal(payload, "return_date")); err == nil {
			p.ReturnDate = &t
		}
	case history.TypeTravelersSelected:
		p.Adults = intVal(payload, "adults")
		p.Children = intVal(payload, "children")
	case history.TypeTripTypeConfirmed:
		switch stringVal(payload, "trip_type") {
		case string(trip.TypeRoundtrip):
			p.TripType = trip.TypeRoundtrip
		case string(trip.TypeOneway):
			p.TripType = trip.TypeOneway
		case string(trip.TypeMulti):
			p.TripType = trip.TypeMulti
		}
	default:
		return trip.Patch{}, false
	}
	return p, true
}

func stringVal(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func intVal(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
