package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each session as JSON under "<prefix><refresh token>"
// with a key TTL matching the session lifetime, so revocation-by-expiry needs
// no sweeper. Preferred over Mongo when Redis is configured.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessions encode: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		// never persist an already-dead grant
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+s.RefreshToken, b, ttl).Err(); err != nil {
		return fmt.Errorf("sessions create: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	b, err := r.client.Get(ctx, r.prefix+refresh).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessions get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("sessions decode: %w", err)
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	if err := r.client.Del(ctx, r.prefix+refresh).Err(); err != nil {
		return fmt.Errorf("sessions delete: %w", err)
	}
	return nil
}
