package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// ClassifyIntent analyzes the user's natural language input and extracts a structured intent.
	// contextMap contains dynamic information like "current_date", "trip_state", "interaction_summary".
	ClassifyIntent(ctx context.Context, userMessage string, contextMap map[string]string) (*ClassifiedIntent, error)
}
