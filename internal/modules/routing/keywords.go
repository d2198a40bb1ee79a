// README: Per-language keyword tables: undecided phrasing and preference-widget triggers.
package routing

import (
	"strings"
)

type Language string

const (
	LangEnglish Language = "en"
	LangFrench  Language = "fr"
)

// frenchMarkers are common French function words used for cheap language
// detection. Two or more hits classify the message as French.
var frenchMarkers = []string{
	" je ", " tu ", " vous ", " nous ", " pas ", " est ", " une ", " des ",
	" avec ", " pour ", " quelle ", " quel ", " être ", " c'est ", " j'ai ",
	" aller ", " voyage ", " semaine ", " février ", " août ",
}

// DetectLanguage classifies a message as English or French. English is the
// default; the tables below must stay functionally parallel so a wrong guess
// only weakens keyword matching, never changes which concepts exist.
func DetectLanguage(message string) Language {
	padded := " " + strings.ToLower(message) + " "
	hits := 0
	for _, marker := range frenchMarkers {
		if strings.Contains(padded, marker) {
			hits++
			if hits >= 2 {
				return LangFrench
			}
		}
	}
	return LangEnglish
}

// undecidedPhrases signal the user wants the assistant to decide for them,
// independent of what the classifier reported.
var undecidedPhrases = map[Language][]string{
	LangEnglish: {
		"i don't know", "i dont know", "no idea", "not sure",
		"you choose", "you decide", "up to you", "whatever you think",
		"surprise me", "don't care", "anything is fine",
	},
	LangFrench: {
		"je ne sais pas", "je sais pas", "aucune idée", "pas sûr", "pas sure",
		"tu choisis", "choisis pour moi", "comme tu veux", "peu importe",
		"surprends-moi", "à toi de voir", "n'importe",
	},
}

// IsUndecided reports whether the message contains undecided phrasing in the
// detected language.
func IsUndecided(message string, lang Language) bool {
	lower := strings.ToLower(message)
	for _, phrase := range undecidedPhrases[lang] {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// preferenceRule binds a preference concept's trigger terms to the widget
// that collects it.
type preferenceRule struct {
	Widget WidgetKind
	Terms  []string
}

// preferenceKeywords must cover the same concepts in every language:
// dietary, accessibility/must-haves, interests, style/budget. Order matters:
// the first matching rule wins, so narrower concepts come first.
var preferenceKeywords = map[Language][]preferenceRule{
	LangEnglish: {
		{WidgetDietary, []string{
			"vegetarian", "vegan", "halal", "kosher", "gluten", "allerg",
			"pescatarian", "dairy-free", "lactose",
		}},
		{WidgetMustHaves, []string{
			"wheelchair", "accessible", "accessibility", "mobility",
			"elevator", "step-free", "ground floor",
		}},
		{WidgetInterests, []string{
			"museum", "hiking", "beach", "nightlife", "snorkel", "history",
			"food tour", "shopping", "wildlife", "architecture",
		}},
		{WidgetStyle, []string{
			"luxury", "budget", "backpack", "boutique", "all-inclusive",
			"five star", "5 star", "cheap", "upscale",
		}},
	},
	LangFrench: {
		{WidgetDietary, []string{
			"végétarien", "végétarienne", "végan", "végane", "halal",
			"casher", "gluten", "allerg", "sans lactose",
		}},
		{WidgetMustHaves, []string{
			"fauteuil roulant", "accessible", "accessibilité",
			"mobilité réduite", "ascenseur", "rez-de-chaussée",
		}},
		{WidgetInterests, []string{
			"musée", "randonnée", "plage", "vie nocturne", "plongée",
			"histoire", "gastronomie", "shopping", "animaux", "architecture",
		}},
		{WidgetStyle, []string{
			"luxe", "petit budget", "routard", "boutique", "tout compris",
			"cinq étoiles", "5 étoiles", "pas cher", "haut de gamme",
		}},
	},
}

// MatchPreferenceKeyword scans the message against the language-matched
// table and returns the bound widget plus the matched term, or ("", "").
func MatchPreferenceKeyword(message string, lang Language) (WidgetKind, string) {
	lower := strings.ToLower(message)
	for _, rule := range preferenceKeywords[lang] {
		for _, term := range rule.Terms {
			if strings.Contains(lower, term) {
				return rule.Widget, term
			}
		}
	}
	return "", ""
}

// genericClarifications are the fallback prompts when the classifier supplied
// no clarification question of its own.
var genericClarifications = map[Language]string{
	LangEnglish: "Could you tell me a bit more about what you're looking for?",
	LangFrench:  "Pouvez-vous m'en dire un peu plus sur ce que vous recherchez ?",
}

// GenericClarification returns a non-empty clarification prompt for lang.
func GenericClarification(lang Language) string {
	if q, ok := genericClarifications[lang]; ok {
		return q
	}
	return genericClarifications[LangEnglish]
}
