// README: Trip memory store backed by PostgreSQL (one row per session).
package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voyago/internal/types"
)

var ErrNotFound = errors.New("trip memory not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, sessionID types.ID) (*Memory, error) {
	row := s.db.QueryRow(ctx, `
        SELECT session_id, destination, destination_city, departure_city,
               departure_date, return_date, adults, children, trip_type, updated_at
        FROM trip_memories
        WHERE session_id = $1`, string(sessionID),
	)

	var m Memory
	var departureDate, returnDate sql.NullTime
	var tripType sql.NullString

	err := row.Scan(
		&m.SessionID, &m.Destination, &m.DestinationCity, &m.DepartureCity,
		&departureDate, &returnDate, &m.Adults, &m.Children, &tripType, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	m.DepartureDate = toTimePtr(departureDate)
	m.ReturnDate = toTimePtr(returnDate)
	if tripType.Valid {
		m.TripType = TripType(tripType.String)
	}
	return &m, nil
}

func (s *Store) Upsert(ctx context.Context, m *Memory) error {
	var tripType *string
	if m.TripType != "" {
		v := string(m.TripType)
		tripType = &v
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO trip_memories (
            session_id, destination, destination_city, departure_city,
            departure_date, return_date, adults, children, trip_type, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        ON CONFLICT (session_id) DO UPDATE SET
            destination      = EXCLUDED.destination,
            destination_city = EXCLUDED.destination_city,
            departure_city   = EXCLUDED.departure_city,
            departure_date   = EXCLUDED.departure_date,
            return_date      = EXCLUDED.return_date,
            adults           = EXCLUDED.adults,
            children         = EXCLUDED.children,
            trip_type        = EXCLUDED.trip_type,
            updated_at       = NOW()`,
		string(m.SessionID), m.Destination, m.DestinationCity, m.DepartureCity,
		m.DepartureDate, m.ReturnDate, m.Adults, m.Children, tripType,
	)
	return err
}

// Delete removes a session's memory (used when a planning session is reset).
func (s *Store) Delete(ctx context.Context, sessionID types.ID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trip_memories WHERE session_id = $1`, string(sessionID))
	return err
}

func toTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
