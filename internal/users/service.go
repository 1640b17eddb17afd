package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jobtrack/jobtrack/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertByEmail creates or refreshes a user record for the given email.
// New users get a generated subject; the subject of an existing user
// never changes.
func (s *Service) UpsertByEmail(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   uuid.NewString(),
		Email: email,
		Name:  name,
	}
	return s.repo.UpsertByEmail(ctx, u)
}

// UpsertFromClaims creates or updates a user from verified bearer claims.
// Used in OIDC bearer mode on the first authenticated request; the provider
// subject is kept as-is. Both sub and email are required, since email is the
// upsert key.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" || strings.TrimSpace(email) == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   sub,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  name,
	}
	return s.repo.UpsertByEmail(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}
