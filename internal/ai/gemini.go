package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Flash keeps per-turn latency low; classification does not need a large model.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature: classification should be stable across retries.
	model.SetTemperature(0.2)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ClassifyIntent analyzes user input to extract trip-planning intent.
func (p *GeminiProvider) ClassifyIntent(ctx context.Context, userMessage string, contextMap map[string]string) (*ClassifiedIntent, error) {
	systemPrompt := buildClassifierPrompt(contextMap)
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", systemPrompt, userMessage)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Strip markdown fencing; JSON mode usually handles this, but not always.
	cleanJSON := cleanJSONString(responseText.String())

	var result ClassifiedIntent
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}

	return &result, nil
}

// buildClassifierPrompt constructs the instructions for the AI.
func buildClassifierPrompt(ctxMap map[string]string) string {
	currentDate := ctxMap["current_date"]
	tripState := ctxMap["trip_state"]
	interactionSummary := ctxMap["interaction_summary"]

	if currentDate == "" {
		currentDate = "UNKNOWN_DATE"
	}
	if tripState == "" {
		tripState = "EMPTY"
	}
	if interactionSummary == "" {
		interactionSummary = "NONE"
	}

	return fmt.Sprintf(`Role: You are the intent classifier for "Voyago", a conversational trip-planning assistant.
Context:
- Current Date: %s
- Trip State: %s
- Recent Widget Interactions: %s

TASK:
Classify the user's message into exactly one primary intent and extract every
entity the message carries. The user may write in English or French; reply in
the user's language.

INTENT VOCABULARY:
provide_destination, provide_dates, provide_duration, flexible_dates,
provide_travelers, specify_composition, confirm_selection, express_preference,
express_constraint, trigger_search, delegate_choice, chat.

RULES:
1. DATES: Resolve relative dates ("next friday", "vendredi prochain") against
   the Current Date, format YYYY-MM-DD. A month alone goes to "month", not a date.
2. TRAVELERS: "we are 4" / "on est 4" -> adults=4 unless children are named.
3. TRIP TYPE: only set when stated ("one way", "aller simple" -> oneway).
4. DELEGATION: "you choose", "je ne sais pas" -> delegate_choice.
5. SEARCH: explicit "search now", "lance la recherche" -> trigger_search.
6. PRESERVE CONTEXT: never contradict the Trip State; only add to it.
7. CONFIDENCE: 0-100 self-assessment. Below 40 means you are guessing;
   when guessing, set "clarification_question" in the user's language.
8. widget_to_show is OPTIONAL. Suggest one only when a widget would clearly
   collect the data faster than typing (valid kinds: citySelector,
   departureCitySelector, singleDatePicker, dateRangePicker, returnDatePicker,
   travelersSelector, tripTypeConfirm, travelersConfirmBeforeSearch,
   airportConfirm, styleWidget, interestsWidget, mustHavesWidget,
   dietaryWidget, quickFilters).

Output JSON Schema:
{
  "primary_intent": "string (from vocabulary)",
  "secondary_intents": ["string"],
  "confidence": integer (0-100),
  "entities": {
    "destination": "string", "destination_country": "string",
    "departure_city": "string",
    "departure_date": "YYYY-MM-DD", "return_date": "YYYY-MM-DD",
    "month": "string", "duration_days": integer,
    "adults": integer, "children": integer,
    "trip_type": "roundtrip" | "oneway" | "multi",
    "dietary_restrictions": ["string"], "accessibility": ["string"],
    "interests": ["string"], "travel_style": "string"
  },
  "widget_to_show": {"kind": "string", "data": {}, "reason": "string"} | null,
  "clarification_question": "string | empty",
  "reply": "string (short, user facing, user's language)"
}
`, currentDate, tripState, interactionSummary)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
