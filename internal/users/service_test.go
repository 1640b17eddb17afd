package users

import (
	"context"
	"testing"
	"time"

	"github.com/jobtrack/jobtrack/internal/models"
)

type fakeRepo struct {
	lastUpsert *models.User
	upsertErr  error
}

func (f *fakeRepo) UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	f.lastUpsert = u
	// simulate repository behavior: ensure timestamps are set
	now := time.Now().UTC()
	if f.lastUpsert.CreatedAt.IsZero() {
		f.lastUpsert.CreatedAt = now
	}
	f.lastUpsert.UpdatedAt = now
	// return a copy with an ID set
	ret := *f.lastUpsert
	ret.ID = "abcd1234"
	return &ret, f.upsertErr
}

func (f *fakeRepo) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return nil, nil
}

func TestUpsertByEmail(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.UpsertByEmail(ctx, "  X@Example.COM ", "X User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Email != "x@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if u.Sub == "" {
		t.Fatal("expected a generated subject")
	}
	if repo.lastUpsert == nil {
		t.Fatal("expected repository UpsertByEmail to be called")
	}
	if repo.lastUpsert.CreatedAt.IsZero() || repo.lastUpsert.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set: created=%v updated=%v", repo.lastUpsert.CreatedAt, repo.lastUpsert.UpdatedAt)
	}
	if u.ID == "" {
		t.Fatalf("expected returned user to have an ID set by repo")
	}

	// empty email => nil, no call
	repo.lastUpsert = nil
	u2, err := svc.UpsertByEmail(ctx, "   ", "")
	if err != nil {
		t.Fatalf("unexpected error on empty email: %v", err)
	}
	if u2 != nil || repo.lastUpsert != nil {
		t.Fatalf("expected nil user and no repo call for empty email")
	}
}

func TestUpsertFromClaims(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	claims := map[string]interface{}{
		"sub":   "sub-123",
		"email": "x@example.com",
		"name":  "X User",
	}

	u, err := svc.UpsertFromClaims(ctx, claims)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Sub != "sub-123" {
		t.Fatalf("unexpected sub: %s", u.Sub)
	}
	if u.Email != "x@example.com" {
		t.Fatalf("unexpected email: %s", u.Email)
	}

	// Test missing sub => returns nil
	u2, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "y@e.com"})
	if err != nil {
		t.Fatalf("unexpected error on missing sub: %v", err)
	}
	if u2 != nil {
		t.Fatalf("expected nil when sub missing, got: %v", u2)
	}
}

func TestSubjectStableAcrossSignIns(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	ctx := context.Background()

	first, err := svc.UpsertByEmail(ctx, "x@example.com", "X")
	if err != nil {
		t.Fatalf("first sign-in: %v", err)
	}
	second, err := svc.UpsertByEmail(ctx, "x@example.com", "X Renamed")
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if second.Sub != first.Sub {
		t.Fatalf("subject changed across sign-ins: %s != %s", second.Sub, first.Sub)
	}
	if second.Name != "X Renamed" {
		t.Fatalf("name not refreshed: %s", second.Name)
	}

	got, err := svc.GetBySub(ctx, first.Sub)
	if err != nil || got == nil || got.Email != "x@example.com" {
		t.Fatalf("GetBySub = %v, %v", got, err)
	}
}
