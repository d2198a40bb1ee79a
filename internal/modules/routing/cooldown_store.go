// README: Cooldown session store backed by Redis (snapshot per session, TTL-bounded).
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voyago/internal/types"
)

const cooldownKeyPrefix = "routing:session:%s:cooldowns"

// CooldownStore persists tracker snapshots so anti-repetition state survives
// process restarts. Sessions expire after the configured TTL.
type CooldownStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCooldownStore(redis *redis.Client, ttl time.Duration) *CooldownStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CooldownStore{redis: redis, ttl: ttl}
}

// Load returns the stored snapshot for a session. A missing key yields an
// empty snapshot, not an error.
func (s *CooldownStore) Load(ctx context.Context, sessionID types.ID) (CooldownSnapshot, error) {
	empty := CooldownSnapshot{Records: map[WidgetKind]CooldownRecord{}}
	val, err := s.redis.Get(ctx, cooldownKey(sessionID)).Result()
	if err == redis.Nil {
		return empty, nil
	}
	if err != nil {
		return empty, err
	}
	var snap CooldownSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return empty, err
	}
	if snap.Records == nil {
		snap.Records = map[WidgetKind]CooldownRecord{}
	}
	return snap, nil
}

// Save stores the snapshot and refreshes the session TTL.
func (s *CooldownStore) Save(ctx context.Context, sessionID types.ID, snap CooldownSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cooldownKey(sessionID), data, s.ttl).Err()
}

// Clear drops the session's cooldown state (planning session reset).
func (s *CooldownStore) Clear(ctx context.Context, sessionID types.ID) error {
	return s.redis.Del(ctx, cooldownKey(sessionID)).Err()
}

func cooldownKey(sessionID types.ID) string {
	return fmt.Sprintf(cooldownKeyPrefix, string(sessionID))
}
