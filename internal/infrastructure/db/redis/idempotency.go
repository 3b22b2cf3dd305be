package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix     = "idempotency"
	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyStore keeps the first recorded response per key.
// Key format: idempotency:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A ttl of zero or less uses 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the recorded response for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return data, true, nil
}

// Remember records data under key unless a response is already stored.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, data []byte) error {
	if err := s.client.SetNX(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return idempotencyPrefix + ":" + k
}
