package memory

import (
	"context"
	"time"

	"campus-finance-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps revoked token ids in process memory. Entries are
// lost on restart and are not shared between instances.
type SessionRepository struct {
	cache *cache.Cache
}

var _ store.RevocationStore = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	// expired entries are purged every 10 minutes
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (r *SessionRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := r.cache.Get(tokenID)
	return found, nil
}
