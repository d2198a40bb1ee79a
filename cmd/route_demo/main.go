package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"voyago/internal/ai"
	"voyago/internal/modules/routing"
	"voyago/internal/modules/trip"
)

// route_demo classifies one message with Gemini and runs the widget router
// against an empty session, printing the resulting decision.
func main() {
	message := flag.String("message", "I want to go somewhere warm in Italy", "user message to classify")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	fmt.Printf("User: %s\n", *message)

	intent, err := provider.ClassifyIntent(ctx, *message, map[string]string{
		"current_date": time.Now().Format("2006-01-02"),
	})
	if err != nil {
		log.Fatalf("Error classifying intent: %v", err)
	}

	fmt.Printf("Intent: %s (confidence %d)\n", intent.PrimaryIntent, intent.Confidence)
	if intent.Reply != "" {
		fmt.Printf("Reply: %s\n", intent.Reply)
	}

	router := routing.NewRouter(routing.Config{}, routing.NewCooldownTracker(nil), routing.Callbacks{
		OnSearchTriggered: func() { fmt.Println("-> search triggered") },
		OnDelegateChoice:  func() { fmt.Println("-> choice delegated") },
	})
	decision := router.ProcessIntent(routing.Turn{
		Memory:          trip.Memory{},
		LastUserMessage: *message,
	}, intent)

	fmt.Printf("Action: %s\n", decision.Action)
	if decision.ShouldShowWidget {
		fmt.Printf("Widget: %s\n", decision.WidgetKind)
	}
	if decision.Reason != "" {
		fmt.Printf("Reason: %s\n", decision.Reason)
	}
}
