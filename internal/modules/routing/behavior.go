// README: User behavior model: guided vs expert inference from interaction completion rate.
package routing

import (
	"voyago/internal/modules/history"
)

// expertThreshold: below this completion rate the user is treated as someone
// who prefers typing over clicking.
const expertThreshold = 0.5

type UserStyle string

const (
	StyleGuided UserStyle = "guided"
	StyleExpert UserStyle = "expert"
)

// Behavior summarizes how the user interacts with widgets.
type Behavior struct {
	PrefersWidgets bool
	CompletionRate float64
	Style          UserStyle
}

// completedTypes count as "the user finished what the widget asked".
var completedTypes = map[history.InteractionType]struct{}{
	history.TypeWidgetConfirmed:       {},
	history.TypeSelectedVariants:      {},
	history.TypeCitySelected:          {},
	history.TypeDestinationSelected:   {},
	history.TypeDepartureCitySelected: {},
	history.TypeDateSelected:          {},
	history.TypeTravelersSelected:     {},
	history.TypeTripTypeConfirmed:     {},
	history.TypeStyleConfigured:       {},
	history.TypeInterestsConfigured:   {},
	history.TypeMustHavesConfigured:   {},
	history.TypeDietaryConfigured:     {},
}

// InferBehavior derives the user's interaction style from history. An empty
// history defaults to guided: new users get the full widget experience.
func InferBehavior(records []history.Record) Behavior {
	if len(records) == 0 {
		return Behavior{PrefersWidgets: true, CompletionRate: 1, Style: StyleGuided}
	}

	completed := 0
	for _, r := range records {
		if _, ok := completedTypes[r.Type]; ok {
			completed++
		}
	}
	rate := float64(completed) / float64(len(records))

	style := StyleGuided
	if rate < expertThreshold {
		style = StyleExpert
	}
	return Behavior{
		PrefersWidgets: style == StyleGuided,
		CompletionRate: rate,
		Style:          style,
	}
}

// AllowsWidget reports whether a widget of this kind should be surfaced for
// this user. Critical widgets are always allowed; non-critical ones are
// suppressed for expert users.
func (b Behavior) AllowsWidget(kind WidgetKind) bool {
	if IsCritical(kind) {
		return true
	}
	return b.Style == StyleGuided
}
