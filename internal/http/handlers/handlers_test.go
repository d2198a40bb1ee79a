// README: HTTP handler tests over a Gin engine with in-memory collaborators.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"voyago/internal/ai"
	"voyago/internal/config"
	httptransport "voyago/internal/http"
	"voyago/internal/modules/history"
	"voyago/internal/modules/routing"
	"voyago/internal/modules/trip"
	"voyago/internal/service"
	"voyago/internal/types"
)

// stubClassifier is a test double for ai.LLMProvider.
type stubClassifier struct {
	intent *ai.ClassifiedIntent
	err    error
}

func (s *stubClassifier) ClassifyIntent(_ context.Context, _ string, _ map[string]string) (*ai.ClassifiedIntent, error) {
	return s.intent, s.err
}

type memTrips struct {
	memories map[types.ID]trip.Memory
}

func (m *memTrips) Get(_ context.Context, id types.ID) (trip.Memory, error) {
	mem := m.memories[id]
	mem.SessionID = id
	return mem, nil
}

func (m *memTrips) Apply(_ context.Context, id types.ID, p trip.Patch) (trip.Memory, error) {
	mem := m.memories[id]
	mem.SessionID = id
	if p.DestinationCity != "" {
		mem.DestinationCity = p.DestinationCity
	}
	if p.Destination != "" {
		mem.Destination = p.Destination
	}
	if p.Adults > 0 {
		mem.Adults = p.Adults
	}
	m.memories[id] = mem
	return mem, nil
}

func (m *memTrips) Reset(_ context.Context, id types.ID) error {
	delete(m.memories, id)
	return nil
}

type memLog struct {
	records []history.Record
}

func (m *memLog) Append(_ context.Context, r *history.Record) error {
	m.records = append(m.records, *r)
	return nil
}

func (m *memLog) List(_ context.Context, id types.ID) ([]history.Record, error) {
	var out []history.Record
	for _, r := range m.records {
		if r.SessionID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type memCooldowns struct {
	snapshots map[types.ID]routing.CooldownSnapshot
}

func (m *memCooldowns) Load(_ context.Context, id types.ID) (routing.CooldownSnapshot, error) {
	if snap, ok := m.snapshots[id]; ok {
		return snap, nil
	}
	return routing.CooldownSnapshot{Records: map[routing.WidgetKind]routing.CooldownRecord{}}, nil
}

func (m *memCooldowns) Save(_ context.Context, id types.ID, snap routing.CooldownSnapshot) error {
	m.snapshots[id] = snap
	return nil
}

func (m *memCooldowns) Clear(_ context.Context, id types.ID) error {
	delete(m.snapshots, id)
	return nil
}

// buildTestRouter wires a Gin engine around an assistant with in-memory state.
func buildTestRouter(classifier *stubClassifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	assistant := service.NewAssistant(
		classifier,
		&memTrips{memories: make(map[types.ID]trip.Memory)},
		&memLog{},
		&memCooldowns{snapshots: make(map[types.ID]routing.CooldownSnapshot)},
		nil,
		nil,
		config.RoutingConfig{LowConfidence: 40},
	)
	return httptransport.NewServer(httptransport.ServerDeps{Assistant: assistant}).Routes()
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func destinationClassifier() *stubClassifier {
	return &stubClassifier{intent: &ai.ClassifiedIntent{
		PrimaryIntent: ai.IntentProvideDestination,
		Confidence:    85,
		Entities:      ai.Entities{DestinationCountry: "Italy"},
		Reply:         "Italy sounds wonderful!",
	}}
}

// TestChat_ReturnsDecision verifies a full turn over HTTP.
func TestChat_ReturnsDecision(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"session_id": "s1",
		"message":    "I want to go to Italy in June",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply    string `json:"reply"`
		Decision struct {
			ShouldShowWidget bool   `json:"ShouldShowWidget"`
			WidgetKind       string `json:"WidgetKind"`
		} `json:"decision"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v, raw=%s", err, w.Body.String())
	}
	if resp.Reply != "Italy sounds wonderful!" {
		t.Fatalf("expected the classifier's reply, got %q", resp.Reply)
	}
	if !resp.Decision.ShouldShowWidget || resp.Decision.WidgetKind != string(routing.WidgetCitySelector) {
		t.Fatalf("expected a citySelector decision, got %+v", resp.Decision)
	}
}

func TestChat_RejectsMissingFields(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{"session_id": "s1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", w.Code)
	}
}

func TestChat_RejectsMalformedSessionID(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"session_id": "not valid!",
		"message":    "hello",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed session id, got %d", w.Code)
	}
}

// TestRecordInteraction_RoundTrip confirms the widget interaction path end to
// end: the recorded city suppresses the widget in later routing queries.
func TestRecordInteraction_RoundTrip(t *testing.T) {
	r := buildTestRouter(destinationClassifier())

	w := doRequest(r, http.MethodPost, "/api/widgets/interactions", map[string]any{
		"session_id":  "s1",
		"widget_kind": string(routing.WidgetCitySelector),
		"type":        string(history.TypeCitySelected),
		"payload":     map[string]any{"city": "Rome"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/widgets/next?session_id=s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var next struct {
		WidgetKind string `json:"widget_kind"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &next); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if next.WidgetKind != string(routing.WidgetDateRangePicker) {
		t.Fatalf("expected dateRangePicker after the city was selected, got %q", next.WidgetKind)
	}
}

func TestRecordInteraction_RejectsUnknownType(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodPost, "/api/widgets/interactions", map[string]any{
		"session_id":  "s1",
		"widget_kind": string(routing.WidgetCitySelector),
		"type":        "made_up",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown interaction type, got %d", w.Code)
	}
}

func TestCanShow_ReportsSuggestion(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodGet, "/api/widgets/returnDatePicker/can-show?session_id=s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Valid           bool   `json:"valid"`
		SuggestedWidget string `json:"suggested_widget"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Valid || resp.SuggestedWidget != string(routing.WidgetDateRangePicker) {
		t.Fatalf("expected invalid with dateRangePicker suggestion, got %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(destinationClassifier())
	w := doRequest(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
