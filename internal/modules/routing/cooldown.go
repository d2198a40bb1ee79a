// README: Cooldown tracker: per-widget attempt limits, typing penalties, and time windows.
package routing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// MaxAttempts caps how many times the same widget may be shown without a
	// confirmation before it is retired for the session.
	MaxAttempts = 2
	// StandardCooldown is the minimum gap between two showings of one kind.
	StandardCooldown = 60 * time.Second
	// TypedPenalty extends the gap when the user typed the answer instead of
	// using the widget.
	TypedPenalty = 120 * time.Second
	// TypedWindow distinguishes "ignored this widget and typed" from
	// unrelated typing later on.
	TypedWindow = 30 * time.Second
)

// BlockReason explains why a widget cannot be shown right now. The constants
// are ordered by precedence; callers rely on that order for messaging.
type BlockReason string

const (
	BlockNone             BlockReason = ""
	BlockAlreadyConfirmed BlockReason = "already_confirmed"
	BlockMaxAttempts      BlockReason = "max_attempts"
	BlockPrefersTyping    BlockReason = "user_prefers_typing"
	BlockCooldown         BlockReason = "cooldown"
)

// CooldownRecord is the tracker's private per-kind state. Exported only so
// snapshots can round-trip through the session store.
type CooldownRecord struct {
	ShownAt          time.Time `json:"shown_at"`
	Confirmed        bool      `json:"confirmed"`
	Dismissed        bool      `json:"dismissed"`
	UserTypedInstead bool      `json:"user_typed_instead"`
	Attempts         int       `json:"attempts"`
}

// CooldownSnapshot is the serializable form of a tracker's state.
type CooldownSnapshot struct {
	Records   map[WidgetKind]CooldownRecord `json:"records"`
	LastShown WidgetKind                    `json:"last_shown"`
}

// CooldownTracker decides whether a widget kind may be shown again. It is the
// only component allowed to mutate its records; one mutation per call, no
// interleaving under the one-decision-per-turn model.
type CooldownTracker struct {
	now       func() time.Time
	records   map[WidgetKind]*CooldownRecord
	lastShown WidgetKind
}

// NewCooldownTracker builds an empty tracker. now may be nil, in which case
// time.Now is used; tests inject a fake clock.
func NewCooldownTracker(now func() time.Time) *CooldownTracker {
	if now == nil {
		now = time.Now
	}
	return &CooldownTracker{
		now:     now,
		records: make(map[WidgetKind]*CooldownRecord),
	}
}

// CanShow reports whether kind may be surfaced right now.
func (t *CooldownTracker) CanShow(kind WidgetKind) bool {
	return t.BlockReason(kind) == BlockNone
}

// BlockReason mirrors CanShow with the blocking cause, in fixed precedence:
// already_confirmed, max_attempts, user_prefers_typing, cooldown.
func (t *CooldownTracker) BlockReason(kind WidgetKind) BlockReason {
	rec, ok := t.records[kind]
	if !ok {
		return BlockNone
	}
	elapsed := t.now().Sub(rec.ShownAt)
	switch {
	case rec.Confirmed:
		// Settled data is never re-prompted.
		return BlockAlreadyConfirmed
	case rec.Attempts >= MaxAttempts:
		return BlockMaxAttempts
	case rec.UserTypedInstead && elapsed < TypedPenalty:
		return BlockPrefersTyping
	case elapsed < StandardCooldown:
		return BlockCooldown
	default:
		return BlockNone
	}
}

// RecordShown registers a showing: bumps attempts, clears the confirmed and
// typed-instead flags, stamps the show time. Dismissed survives a re-show.
func (t *CooldownTracker) RecordShown(kind WidgetKind) {
	rec, ok := t.records[kind]
	if !ok {
		rec = &CooldownRecord{}
		t.records[kind] = rec
	}
	rec.Attempts++
	rec.Confirmed = false
	rec.UserTypedInstead = false
	rec.ShownAt = t.now()
	t.lastShown = kind
}

// RecordConfirmed marks the kind as settled. Confirming a kind that was never
// shown is not a valid transition and is silently ignored.
func (t *CooldownTracker) RecordConfirmed(kind WidgetKind) {
	if rec, ok := t.records[kind]; ok {
		rec.Confirmed = true
	}
}

// RecordDismissed flags a dismissal on the existing record; no-op otherwise.
func (t *CooldownTracker) RecordDismissed(kind WidgetKind) {
	if rec, ok := t.records[kind]; ok {
		rec.Dismissed = true
	}
}

// RecordTypedInstead notes that the user answered by typing rather than via
// the widget. It only applies when kind is the last shown widget and less
// than TypedWindow has passed since it was shown; anything later is treated
// as unrelated typing.
func (t *CooldownTracker) RecordTypedInstead(kind WidgetKind) {
	if kind != t.lastShown {
		return
	}
	rec, ok := t.records[kind]
	if !ok {
		return
	}
	if t.now().Sub(rec.ShownAt) >= TypedWindow {
		return
	}
	rec.UserTypedInstead = true
}

// Reset clears all records and the last-shown pointer (new planning session).
func (t *CooldownTracker) Reset() {
	t.records = make(map[WidgetKind]*CooldownRecord)
	t.lastShown = ""
}

// LastShown returns the most recently shown widget kind, or "".
func (t *CooldownTracker) LastShown() WidgetKind {
	return t.lastShown
}

// Snapshot copies the tracker's state for persistence.
func (t *CooldownTracker) Snapshot() CooldownSnapshot {
	snap := CooldownSnapshot{
		Records:   make(map[WidgetKind]CooldownRecord, len(t.records)),
		LastShown: t.lastShown,
	}
	for kind, rec := range t.records {
		snap.Records[kind] = *rec
	}
	return snap
}

// Restore replaces the tracker's state with a snapshot.
func (t *CooldownTracker) Restore(snap CooldownSnapshot) {
	t.records = make(map[WidgetKind]*CooldownRecord, len(snap.Records))
	for kind, rec := range snap.Records {
		r := rec
		t.records[kind] = &r
	}
	t.lastShown = snap.LastShown
}

// Summary renders the currently blocked widgets and their precedence-ordered
// reasons, for diagnostics and LLM context.
func (t *CooldownTracker) Summary() string {
	kinds := make([]WidgetKind, 0, len(t.records))
	for kind := range t.records {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var lines []string
	for _, kind := range kinds {
		reason := t.BlockReason(kind)
		if reason == BlockNone {
			continue
		}
		rec := t.records[kind]
		lines = append(lines, fmt.Sprintf("%s: %s (attempts=%d)", kind, reason, rec.Attempts))
	}
	if len(lines) == 0 {
		return "no widgets blocked"
	}
	return strings.Join(lines, "\n")
}
