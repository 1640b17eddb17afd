package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobtrack/jobtrack/pkg/metrics"
)

// ErrUnauthenticated is returned when no owner identity was resolved.
// The HTTP layer rejects unauthenticated requests before the service is
// reached; this check is the redundant second line of defense.
var ErrUnauthenticated = errors.New("not signed in")

// Service is the record-store adapter: it validates input, applies
// defaults, and scopes every repository call to the owning identity.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, owner string) ([]JobApplication, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	apps, err := s.repo.List(ctx, owner)
	s.count("list", err)
	return apps, err
}

func (s *Service) Get(ctx context.Context, owner, id string) (*JobApplication, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	app, err := s.repo.Get(ctx, owner, id)
	s.count("get", err)
	return app, err
}

func (s *Service) Create(ctx context.Context, owner string, f FormData) (*JobApplication, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	app, err := s.repo.Create(ctx, owner, f)
	s.count("create", err)
	return app, err
}

func (s *Service) Update(ctx context.Context, owner, id string, p Patch) (*JobApplication, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	app, err := s.repo.Update(ctx, owner, id, p)
	s.count("update", err)
	return app, err
}

// Remove hard-deletes the record. Deleting an absent (or foreign-owned) id
// returns ErrNotFound rather than succeeding silently.
func (s *Service) Remove(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	err := s.repo.Remove(ctx, owner, id)
	s.count("remove", err)
	return err
}

// AddInterviewNote appends one note with a fresh id and timestamp.
func (s *Service) AddInterviewNote(ctx context.Context, owner, id, title, content string) (*JobApplication, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	note := InterviewNote{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	app, err := s.repo.AddInterviewNote(ctx, owner, id, note)
	s.count("add_note", err)
	return app, err
}

func (s *Service) count(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ApplicationOps.WithLabelValues(op, outcome).Inc()
}
