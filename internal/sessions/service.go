package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Service issues and validates refresh sessions on top of a Repository.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession mints an opaque refresh token for sub and stores the session
// with the given lifetime.
func (s *Service) CreateSession(ctx context.Context, sub string, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := time.Now().UTC()
	sess := &Session{
		RefreshToken: token,
		Sub:          sub,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefresh resolves a refresh token to its session. Unknown and
// expired tokens both come back as (nil, nil); expired ones are deleted on
// the way out so the store does not accumulate dead grants.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.Expired() {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

// DeleteRefresh revokes a refresh token. Deleting an unknown token is not an
// error; logout must be idempotent.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}
