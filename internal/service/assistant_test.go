// README: Assistant orchestration tests with in-memory collaborator fakes.
package service

import (
	"context"
	"errors"
	"testing"

	"voyago/internal/ai"
	"voyago/internal/config"
	"voyago/internal/modules/aiusage"
	"voyago/internal/modules/history"
	"voyago/internal/modules/routing"
	"voyago/internal/modules/trip"
	"voyago/internal/types"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeClassifier struct {
	intent *ai.ClassifiedIntent
	err    error
	calls  int
}

func (f *fakeClassifier) ClassifyIntent(_ context.Context, _ string, _ map[string]string) (*ai.ClassifiedIntent, error) {
	f.calls++
	return f.intent, f.err
}

type fakeTrips struct {
	memories map[types.ID]trip.Memory
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{memories: make(map[types.ID]trip.Memory)}
}

func (f *fakeTrips) Get(_ context.Context, sessionID types.ID) (trip.Memory, error) {
	m := f.memories[sessionID]
	m.SessionID = sessionID
	return m, nil
}

func (f *fakeTrips) Apply(_ context.Context, sessionID types.ID, p trip.Patch) (trip.Memory, error) {
	m := f.memories[sessionID]
	m.SessionID = sessionID
	if p.Destination != "" {
		m.Destination = p.Destination
	}
	if p.DestinationCity != "" {
		m.DestinationCity = p.DestinationCity
	}
	if p.DepartureCity != "" {
		m.DepartureCity = p.DepartureCity
	}
	if p.DepartureDate != nil {
		m.DepartureDate = p.DepartureDate
	}
	if p.ReturnDate != nil {
		m.ReturnDate = p.ReturnDate
	}
	if p.Adults > 0 {
		m.Adults = p.Adults
	}
	if p.Children > 0 {
		m.Children = p.Children
	}
	if p.TripType != "" {
		m.TripType = p.TripType
	}
	f.memories[sessionID] = m
	return m, nil
}

func (f *fakeTrips) Reset(_ context.Context, sessionID types.ID) error {
	delete(f.memories, sessionID)
	return nil
}

type fakeLog struct {
	records []history.Record
}

func (f *fakeLog) Append(_ context.Context, r *history.Record) error {
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeLog) List(_ context.Context, sessionID types.ID) ([]history.Record, error) {
	var out []history.Record
	for _, r := range f.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCooldowns struct {
	snapshots map[types.ID]routing.CooldownSnapshot
}

func newFakeCooldowns() *fakeCooldowns {
	return &fakeCooldowns{snapshots: make(map[types.ID]routing.CooldownSnapshot)}
}

func (f *fakeCooldowns) Load(_ context.Context, sessionID types.ID) (routing.CooldownSnapshot, error) {
	if snap, ok := f.snapshots[sessionID]; ok {
		return snap, nil
	}
	return routing.CooldownSnapshot{Records: map[routing.WidgetKind]routing.CooldownRecord{}}, nil
}

func (f *fakeCooldowns) Save(_ context.Context, sessionID types.ID, snap routing.CooldownSnapshot) error {
	f.snapshots[sessionID] = snap
	return nil
}

func (f *fakeCooldowns) Clear(_ context.Context, sessionID types.ID) error {
	delete(f.snapshots, sessionID)
	return nil
}

type fakeUsage struct {
	err error
}

func (f *fakeUsage) UseToken(_ context.Context, _ string) error { return f.err }

func newTestAssistant(classifier *fakeClassifier) (*Assistant, *fakeTrips, *fakeLog, *fakeCooldowns) {
	trips := newFakeTrips()
	interactions := &fakeLog{}
	cooldowns := newFakeCooldowns()
	a := NewAssistant(classifier, trips, interactions, cooldowns, nil, nil, config.RoutingConfig{LowConfidence: 40})
	return a, trips, interactions, cooldowns
}

// ---------------------------------------------------------------------------
// HandleTurn
// ---------------------------------------------------------------------------

func TestHandleTurn_ShowsWidgetAndRecordsIt(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{DestinationCountry: "Italy"},
		Reply:         "Italy is lovely in June!",
	}}
	a, _, interactions, cooldowns := newTestAssistant(classifier)

	result, err := a.HandleTurn(context.Background(), "s1", "I want to go to Italy in June")
	if err != nil {
		t.Fatalf("handle turn: %v", err)
	}
	if !result.Decision.ShouldShowWidget || result.Decision.WidgetKind != routing.WidgetCitySelector {
		t.Fatalf("expected citySelector decision, got %+v", result.Decision)
	}
	if result.Reply != "Italy is lovely in June!" {
		t.Fatalf("expected the classifier's reply, got %q", result.Reply)
	}

	if len(interactions.records) != 1 || interactions.records[0].Type != history.TypeWidgetShown {
		t.Fatalf("expected one widget_shown record, got %+v", interactions.records)
	}

	snap := cooldowns.snapshots["s1"]
	if snap.LastShown != routing.WidgetCitySelector {
		t.Fatalf("expected cooldown snapshot with citySelector last shown, got %+v", snap)
	}
	if snap.Records[routing.WidgetCitySelector].Attempts != 1 {
		t.Fatalf("expected one attempt recorded, got %+v", snap.Records)
	}
}

func TestHandleTurn_AppliesEntitiesToTripMemory(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{Destination: "Rome", DepartureDate: "2026-06-10", Adults: 2},
	}}
	a, trips, _, _ := newTestAssistant(classifier)

	if _, err := a.HandleTurn(context.Background(), "s1", "Rome for two, June 10th"); err != nil {
		t.Fatalf("handle turn: %v", err)
	}

	m := trips.memories["s1"]
	if m.DestinationCity != "Rome" || m.Adults != 2 {
		t.Fatalf("entities must land in trip memory, got %+v", m)
	}
	if m.DepartureDate == nil || m.DepartureDate.Format("2006-01-02") != "2026-06-10" {
		t.Fatalf("departure date must be parsed, got %+v", m.DepartureDate)
	}
}

func TestHandleTurn_ClassifierFailureDegradesToClarification(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	a, _, _, _ := newTestAssistant(classifier)

	result, err := a.HandleTurn(context.Background(), "s1", "somewhere sunny")
	if err != nil {
		t.Fatalf("classifier failure must not fail the turn: %v", err)
	}
	if result.Decision.Action != routing.ActionClarify {
		t.Fatalf("expected clarification, got %+v", result.Decision)
	}
	if result.Reply == "" {
		t.Fatal("clarification must carry a non-empty reply")
	}
}

func TestHandleTurn_BudgetExhaustedSurfaces(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{PrimaryIntent: ai.IntentChat}}
	trips := newFakeTrips()
	a := NewAssistant(classifier, trips, &fakeLog{}, newFakeCooldowns(), nil,
		&fakeUsage{err: aiusage.ErrInsufficientTokens}, config.RoutingConfig{})

	_, err := a.HandleTurn(context.Background(), "s1", "hello")
	if !errors.Is(err, aiusage.ErrInsufficientTokens) {
		t.Fatalf("expected budget error, got %v", err)
	}
	if classifier.calls != 0 {
		t.Fatal("the classifier must not be called once the budget is spent")
	}
}

func TestHandleTurn_TypingAfterWidgetMarksTypedInstead(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{DestinationCountry: "Italy"},
	}}
	a, _, _, cooldowns := newTestAssistant(classifier)
	ctx := context.Background()

	if _, err := a.HandleTurn(ctx, "s1", "Italy maybe"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	// The user keeps typing instead of using the widget just shown.
	if _, err := a.HandleTurn(ctx, "s1", "or actually somewhere in Spain"); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	rec := cooldowns.snapshots["s1"].Records[routing.WidgetCitySelector]
	if !rec.UserTypedInstead {
		t.Fatalf("typing right after a showing must flag typed-instead, got %+v", rec)
	}
}

// ---------------------------------------------------------------------------
// RecordInteraction
// ---------------------------------------------------------------------------

func TestRecordInteraction_CitySelectionSettlesWidgetAndMemory(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{DestinationCountry: "Italy"},
	}}
	a, trips, interactions, cooldowns := newTestAssistant(classifier)
	ctx := context.Background()

	if _, err := a.HandleTurn(ctx, "s1", "Italy in June"); err != nil {
		t.Fatalf("turn: %v", err)
	}

	err := a.RecordInteraction(ctx, InteractionCommand{
		SessionID:  "s1",
		WidgetKind: routing.WidgetCitySelector,
		Type:       history.TypeCitySelected,
		Payload:    map[string]any{"city": "Rome"},
		Summary:    "picked Rome",
	})
	if err != nil {
		t.Fatalf("record interaction: %v", err)
	}

	if trips.memories["s1"].DestinationCity != "Rome" {
		t.Fatalf("city payload must update trip memory, got %+v", trips.memories["s1"])
	}
	if !cooldowns.snapshots["s1"].Records[routing.WidgetCitySelector].Confirmed {
		t.Fatal("a data-supplying interaction must confirm the widget")
	}
	last := interactions.records[len(interactions.records)-1]
	if last.Type != history.TypeCitySelected || last.SummaryText != "picked Rome" {
		t.Fatalf("interaction must be appended, got %+v", last)
	}
}

func TestRecordInteraction_DismissalKeepsMemoryUntouched(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{DestinationCountry: "Italy"},
	}}
	a, trips, _, cooldowns := newTestAssistant(classifier)
	ctx := context.Background()

	if _, err := a.HandleTurn(ctx, "s1", "Italy in June"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	err := a.RecordInteraction(ctx, InteractionCommand{
		SessionID:  "s1",
		WidgetKind: routing.WidgetCitySelector,
		Type:       history.TypeWidgetDismissed,
	})
	if err != nil {
		t.Fatalf("record interaction: %v", err)
	}

	if trips.memories["s1"].DestinationCity != "" {
		t.Fatalf("a dismissal must not touch trip memory, got %+v", trips.memories["s1"])
	}
	rec := cooldowns.snapshots["s1"].Records[routing.WidgetCitySelector]
	if !rec.Dismissed || rec.Confirmed {
		t.Fatalf("expected dismissed flag only, got %+v", rec)
	}
}

// ---------------------------------------------------------------------------
// Queries and reset
// ---------------------------------------------------------------------------

func TestNextWidget_WalksThePriorityOrder(t *testing.T) {
	a, trips, _, _ := newTestAssistant(&fakeClassifier{})
	ctx := context.Background()

	kind, err := a.NextWidget(ctx, "s1")
	if err != nil {
		t.Fatalf("next widget: %v", err)
	}
	if kind != routing.WidgetCitySelector {
		t.Fatalf("expected citySelector for an empty session, got %s", kind)
	}

	trips.memories["s1"] = trip.Memory{DestinationCity: "Rome"}
	kind, err = a.NextWidget(ctx, "s1")
	if err != nil {
		t.Fatalf("next widget: %v", err)
	}
	if kind != routing.WidgetDateRangePicker {
		t.Fatalf("expected dateRangePicker once the city is known, got %s", kind)
	}
}

func TestCanShow_ReportsPrerequisiteFailure(t *testing.T) {
	a, _, _, _ := newTestAssistant(&fakeClassifier{})

	v, err := a.CanShow(context.Background(), "s1", routing.WidgetReturnDatePicker)
	if err != nil {
		t.Fatalf("can show: %v", err)
	}
	if v.Valid || v.SuggestedWidget != routing.WidgetDateRangePicker {
		t.Fatalf("expected prerequisite failure with suggestion, got %+v", v)
	}
}

func TestResetSession_ClearsMemoryAndCooldowns(t *testing.T) {
	classifier := &fakeClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{Destination: "Rome"},
	}}
	a, trips, _, cooldowns := newTestAssistant(classifier)
	ctx := context.Background()

	if _, err := a.HandleTurn(ctx, "s1", "Rome please"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	if err := a.ResetSession(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, ok := trips.memories["s1"]; ok {
		t.Fatal("reset must clear trip memory")
	}
	if _, ok := cooldowns.snapshots["s1"]; ok {
		t.Fatal("reset must clear the cooldown snapshot")
	}
}
