package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLinkInvalid is returned when a sign-in token is unknown, already
// consumed or expired. Callers cannot tell these cases apart.
var ErrLinkInvalid = errors.New("sign-in link invalid or expired")

// LinkStore issues and consumes one-time sign-in tokens. A token is valid
// for a single Consume call within its TTL.
type LinkStore interface {
	Create(ctx context.Context, email string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

func newLinkToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RedisLinkStore stores tokens under "signin:<token>" with the link TTL.
type RedisLinkStore struct {
	client *redis.Client
	prefix string
}

func NewRedisLinkStore(client *redis.Client, prefix string) *RedisLinkStore {
	if prefix == "" {
		prefix = "signin:"
	}
	return &RedisLinkStore{client: client, prefix: prefix}
}

func (s *RedisLinkStore) Create(ctx context.Context, email string, ttl time.Duration) (string, error) {
	token, err := newLinkToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.prefix+token, email, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume removes the token atomically so a link can only be used once.
func (s *RedisLinkStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrLinkInvalid
		}
		return "", err
	}
	return email, nil
}

// MemoryLinkStore is an in-memory LinkStore for tests and single-node dev
// runs without Redis.
type MemoryLinkStore struct {
	mu    sync.Mutex
	links map[string]memoryLink
}

type memoryLink struct {
	email     string
	expiresAt time.Time
}

func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[string]memoryLink)}
}

func (s *MemoryLinkStore) Create(ctx context.Context, email string, ttl time.Duration) (string, error) {
	token, err := newLinkToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.links[token] = memoryLink{email: email, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryLinkStore) Consume(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[token]
	if !ok {
		return "", ErrLinkInvalid
	}
	delete(s.links, token)
	if time.Now().After(l.expiresAt) {
		return "", ErrLinkInvalid
	}
	return l.email, nil
}
