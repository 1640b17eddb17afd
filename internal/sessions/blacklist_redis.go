package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist revokes access tokens ahead of their natural expiry. A nil
// Blacklist (or one built without a Redis client) disables revocation
// checks; all methods stay safe to call.
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

func (b *Blacklist) key(token string) string {
	return "blacklist:access:" + token
}

// Add stores the given token in the blacklist with TTL.
func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Set(ctx, b.key(token), "1", ttl).Err()
}

// Contains returns true when the token is revoked.
func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	if b == nil || b.client == nil {
		return false, nil
	}
	exists, err := b.client.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
