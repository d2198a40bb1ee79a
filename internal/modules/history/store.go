// README: Interaction history store backed by PostgreSQL (append + ordered list only).
package history

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"voyago/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Append inserts a record. There is intentionally no update or delete; the
// log is append-only.
func (s *Store) Append(ctx context.Context, r *Record) error {
	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return err
	}
	row := s.db.QueryRow(ctx, `
        INSERT INTO interactions (session_id, widget_kind, interaction_type, payload, summary_text, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at`,
		string(r.SessionID), r.WidgetKind, string(r.Type), payload, r.SummaryText,
	)
	return row.Scan(&r.ID, &r.CreatedAt)
}

// ListBySession returns all records for a session ordered oldest first.
func (s *Store) ListBySession(ctx context.Context, sessionID types.ID) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, session_id, widget_kind, interaction_type, payload, summary_text, created_at
        FROM interactions
        WHERE session_id = $1
        ORDER BY created_at, id`, string(sessionID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var payload []byte
		if err := rows.Scan(&r.ID, &r.SessionID, &r.WidgetKind, &r.Type, &payload, &r.SummaryText, &r.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			// Bad payload JSON is skipped, not fatal; the record itself still counts.
			_ = json.Unmarshal(payload, &r.Payload)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
