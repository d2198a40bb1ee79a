// README: Trip memory service unit tests with an in-memory mock store.
package trip

import (
	"context"
	"testing"
	"time"

	"voyago/internal/types"
)

// mockMemoryStore is an in-memory MemoryStore for testing.
type mockMemoryStore struct {
	memories map[types.ID]*Memory
}

func newMockMemoryStore() *mockMemoryStore {
	return &mockMemoryStore{memories: make(map[types.ID]*Memory)}
}

func (m *mockMemoryStore) Get(_ context.Context, sessionID types.ID) (*Memory, error) {
	mem, ok := m.memories[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *mockMemoryStore) Upsert(_ context.Context, mem *Memory) error {
	cp := *mem
	m.memories[mem.SessionID] = &cp
	return nil
}

func (m *mockMemoryStore) Delete(_ context.Context, sessionID types.ID) error {
	delete(m.memories, sessionID)
	return nil
}

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestGet_UnknownSessionYieldsEmptyMemory(t *testing.T) {
	svc := NewService(newMockMemoryStore())
	m, err := svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.SessionID != "s1" {
		t.Fatalf("expected session id carried over, got %q", m.SessionID)
	}
	if m.Destination != "" || m.Adults != 0 {
		t.Fatalf("expected empty memory, got %+v", m)
	}
}

func TestApply_MergesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newMockMemoryStore()
	svc := NewService(store)

	m, err := svc.Apply(ctx, "s1", Patch{Destination: "Italy"})
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if m.Destination != "Italy" {
		t.Fatalf("expected destination set, got %+v", m)
	}

	m, err = svc.Apply(ctx, "s1", Patch{DestinationCity: "Rome", Adults: 2})
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if m.Destination != "Italy" || m.DestinationCity != "Rome" || m.Adults != 2 {
		t.Fatalf("patch must accumulate, got %+v", m)
	}

	got, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get after apply: %v", err)
	}
	if got.DestinationCity != "Rome" {
		t.Fatalf("memory must be persisted, got %+v", got)
	}
}

func TestApply_ZeroValuesNeverErase(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockMemoryStore())

	if _, err := svc.Apply(ctx, "s1", Patch{
		DestinationCity: "Rome",
		DepartureDate:   datePtr(2026, 6, 10),
		Adults:          2,
		TripType:        TypeRoundtrip,
	}); err != nil {
		t.Fatalf("seed apply: %v", err)
	}

	m, err := svc.Apply(ctx, "s1", Patch{})
	if err != nil {
		t.Fatalf("empty apply: %v", err)
	}
	if m.DestinationCity != "Rome" || m.DepartureDate == nil || m.Adults != 2 || m.TripType != TypeRoundtrip {
		t.Fatalf("an empty patch must not erase anything, got %+v", m)
	}
}

func TestApply_OverwritesWithNewValues(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockMemoryStore())

	if _, err := svc.Apply(ctx, "s1", Patch{DestinationCity: "Rome"}); err != nil {
		t.Fatalf("seed apply: %v", err)
	}
	m, err := svc.Apply(ctx, "s1", Patch{DestinationCity: "Florence"})
	if err != nil {
		t.Fatalf("overwrite apply: %v", err)
	}
	if m.DestinationCity != "Florence" {
		t.Fatalf("a non-zero patch value must overwrite, got %+v", m)
	}
}

func TestReset_ClearsMemory(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockMemoryStore())

	if _, err := svc.Apply(ctx, "s1", Patch{DestinationCity: "Rome"}); err != nil {
		t.Fatalf("seed apply: %v", err)
	}
	if err := svc.Reset(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	m, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if m.DestinationCity != "" {
		t.Fatalf("reset must clear memory, got %+v", m)
	}
}
