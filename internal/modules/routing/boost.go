// README: Confidence reconciliation: local heuristics over raw message text adjust the classifier's score.
package routing

import (
	"strings"

	"voyago/internal/ai"
)

// BoostResult is the reconciliation layer's output. BoostedConfidence, not
// the raw classifier score, is what the router compares against thresholds.
type BoostResult struct {
	BoostedConfidence int
	Language          Language
	ShouldClarify     bool
	// SuggestedIntent overrides the classifier when local evidence is
	// unambiguous (currently only delegate_choice for undecided phrasing).
	SuggestedIntent string
	// FrontendSignals lists the heuristics that fired, for diagnostics.
	FrontendSignals []string
}

// dataIntents corroborated by a matching entity earn a confidence bump.
var intentEntityChecks = map[string]func(ai.Entities) bool{
	ai.IntentProvideDestination: func(e ai.Entities) bool { return e.Destination != "" || e.DestinationCountry != "" },
	ai.IntentProvideDates:       func(e ai.Entities) bool { return e.DepartureDate != "" || e.ReturnDate != "" || e.Month != "" },
	ai.IntentProvideDuration:    func(e ai.Entities) bool { return e.DurationDays > 0 },
	ai.IntentProvideTravelers:   func(e ai.Entities) bool { return e.Adults > 0 || e.Children > 0 },
	ai.IntentSpecifyComposition: func(e ai.Entities) bool { return e.Adults > 0 || e.Children > 0 },
}

// BoostConfidence reconciles the classifier's output with local heuristics
// over the raw message text. Pure function; never fails.
func BoostConfidence(intent *ai.ClassifiedIntent, lastUserMessage, lastAssistantMessage string) BoostResult {
	res := BoostResult{Language: LangEnglish}
	if intent == nil {
		return res
	}
	res.BoostedConfidence = intent.Confidence

	probe := lastUserMessage
	if strings.TrimSpace(probe) == "" {
		probe = lastAssistantMessage
	}
	res.Language = DetectLanguage(probe)

	// Undecided phrasing wins regardless of the classifier's confidence:
	// "you choose" is a delegation even when misclassified as chat.
	if IsUndecided(lastUserMessage, res.Language) {
		res.SuggestedIntent = ai.IntentDelegateChoice
		res.FrontendSignals = append(res.FrontendSignals, "undecided_phrasing")
		return res
	}

	corroborated := false

	if check, ok := intentEntityChecks[intent.PrimaryIntent]; ok && check(intent.Entities) {
		res.BoostedConfidence += 15
		res.FrontendSignals = append(res.FrontendSignals, "entity_corroboration")
		corroborated = true
	}

	if kind, term := MatchPreferenceKeyword(lastUserMessage, res.Language); kind != "" {
		res.BoostedConfidence += 15
		res.FrontendSignals = append(res.FrontendSignals, "preference_keyword:"+term)
		corroborated = true
	}

	words := len(strings.Fields(lastUserMessage))
	if words > 0 && words < 3 && !corroborated {
		// Very short, uninformative messages lower trust in a confident tag.
		res.BoostedConfidence -= 10
		res.FrontendSignals = append(res.FrontendSignals, "short_message")
	}
	if strings.Contains(lastUserMessage, "?") && intent.PrimaryIntent != ai.IntentChat {
		// A user asking a question is rarely supplying the data the
		// classifier thinks they are.
		res.BoostedConfidence -= 15
		res.FrontendSignals = append(res.FrontendSignals, "user_question")
	}

	if res.BoostedConfidence < 0 {
		res.BoostedConfidence = 0
	}
	if res.BoostedConfidence > 100 {
		res.BoostedConfidence = 100
	}

	// Clarification is warranted when nothing local backs the classifier up.
	res.ShouldClarify = !corroborated

	return res
}
