package store

import (
	"context"
	"time"
)

// RevocationStore remembers revoked access tokens by their jti until the token
// would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)
