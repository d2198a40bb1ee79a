// README: Trip memory service: reads session state and applies per-turn entity patches.
package trip

import (
	"context"
	"errors"
	"time"

	"voyago/internal/types"
)

// MemoryStore is the persistence contract the service depends on.
type MemoryStore interface {
	Get(ctx context.Context, sessionID types.ID) (*Memory, error)
	Upsert(ctx context.Context, m *Memory) error
	Delete(ctx context.Context, sessionID types.ID) error
}

type Service struct {
	store MemoryStore
}

func NewService(store MemoryStore) *Service {
	return &Service{store: store}
}

// Patch carries the trip fields extracted from one user turn. Zero values
// mean "not mentioned"; a patch never erases previously collected data.
type Patch struct {
	Destination     string
	DestinationCity string
	DepartureCity   string
	DepartureDate   *time.Time
	ReturnDate      *time.Time
	Adults          int
	Children        int
	TripType        TripType
}

// Get returns the session's memory; a missing row yields an empty Memory
// rather than an error so brand-new sessions need no initialisation step.
func (s *Service) Get(ctx context.Context, sessionID types.ID) (Memory, error) {
	m, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return Memory{SessionID: sessionID}, nil
	}
	if err != nil {
		return Memory{}, err
	}
	return *m, nil
}

// Apply merges a patch into the session's memory and persists the result.
// Returns the updated memory.
func (s *Service) Apply(ctx context.Context, sessionID types.ID, p Patch) (Memory, error) {
	m, err := s.Get(ctx, sessionID)
	if err != nil {
		return Memory{}, err
	}

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

	if err := s.store.Upsert(ctx, &m); err != nil {
		return Memory{}, err
	}
	return m, nil
}

// Reset clears the session's memory for a fresh planning session.
func (s *Service) Reset(ctx context.Context, sessionID types.ID) error {
	return s.store.Delete(ctx, sessionID)
}
