package users

import (
	"context"
	"sync"
	"time"

	"github.com/jobtrack/jobtrack/internal/models"
)

// MemoryUserRepository keeps users in process memory. Used when MongoDB is
// not configured and in tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byEmail[u.Email]; ok {
		existing.Name = u.Name
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	stored := *u
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byEmail[u.Email] = &stored
	cp := stored
	return &cp, nil
}

func (r *MemoryUserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byEmail {
		if u.Sub == sub {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
