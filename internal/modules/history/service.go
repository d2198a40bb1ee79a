// README: Interaction history service: append access plus formatting/summarization helpers.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voyago/internal/types"
)

var ErrUnknownType = errors.New("unknown interaction type")

// InteractionStore is the persistence contract the service depends on.
type InteractionStore interface {
	Append(ctx context.Context, r *Record) error
	ListBySession(ctx context.Context, sessionID types.ID) ([]Record, error)
}

type Service struct {
	store InteractionStore
}

func NewService(store InteractionStore) *Service {
	return &Service{store: store}
}

func (s *Service) Append(ctx context.Context, r *Record) error {
	if !IsValidType(r.Type) {
		return ErrUnknownType
	}
	return s.store.Append(ctx, r)
}

func (s *Service) List(ctx context.Context, sessionID types.ID) ([]Record, error) {
	return s.store.ListBySession(ctx, sessionID)
}

// CountByType tallies records per interaction type.
func CountByType(records []Record) map[InteractionType]int {
	counts := make(map[InteractionType]int, len(records))
	for _, r := range records {
		counts[r.Type]++
	}
	return counts
}

// Summarize renders a compact, human-readable digest of the session's widget
// interactions, suitable for injection into the classifier's context window.
// The most recent maxLines interactions are listed newest last.
func Summarize(records []Record, maxLines int) string {
	if len(records) == 0 {
		return ""
	}
	if maxLines <= 0 {
		maxLines = 10
	}
	start := 0
	if len(records) > maxLines {
		start = len(records) - maxLines
	}

	var sb strings.Builder
	for i, r := range records[start:] {
		if i > 0 {
			sb.WriteString("; ")
		}
		if r.SummaryText != "" {
			sb.WriteString(r.SummaryText)
			continue
		}
		if r.WidgetKind != "" {
			sb.WriteString(fmt.Sprintf("%s:%s", r.WidgetKind, r.Type))
		} else {
			sb.WriteString(string(r.Type))
		}
	}
	if start > 0 {
		return fmt.Sprintf("(%d earlier) %s", start, sb.String())
	}
	return sb.String()
}
