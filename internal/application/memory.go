package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used for unit tests and
// single-node dev runs without MongoDB. It mirrors the Mongo repository's
// semantics, including the ownership-masked NotFound behavior.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[string]applicationRow
	seq   map[string]int // creation order, tie-breaker for List
	order int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[string]applicationRow{}, seq: map[string]int{}}
}

func (m *MemoryRepository) find(owner, id string) (applicationRow, bool) {
	row, ok := m.rows[id]
	if !ok || row.UserID != owner {
		return applicationRow{}, false
	}
	return row, true
}

func (m *MemoryRepository) List(ctx context.Context, owner string) ([]JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rows))
	for id, row := range m.rows {
		if row.UserID == owner {
			ids = append(ids, id)
		}
	}
	// newest-created-first
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.rows[ids[i]], m.rows[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return m.seq[ids[i]] > m.seq[ids[j]]
	})
	out := make([]JobApplication, 0, len(ids))
	for _, id := range ids {
		out = append(out, fromRow(m.rows[id]))
	}
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, owner, id string) (*JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.find(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	app := fromRow(row)
	return &app, nil
}

func (m *MemoryRepository) Create(ctx context.Context, owner string, f FormData) (*JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := toRow(owner, f)
	row.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	row.CreatedAt = now
	row.UpdatedAt = now
	m.rows[row.ID] = row
	m.order++
	m.seq[row.ID] = m.order
	app := fromRow(row)
	return &app, nil
}

func (m *MemoryRepository) Update(ctx context.Context, owner, id string, p Patch) (*JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.find(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	for field, v := range setFields(p) {
		switch field {
		case "company":
			row.Company = v.(string)
		case "position":
			row.Position = v.(string)
		case "applied_date":
			row.AppliedDate = v.(string)
		case "stage":
			row.Stage = v.(string)
		case "status":
			row.Status = v.(string)
		case "salary":
			row.Salary = v.(string)
		case "location":
			row.Location = v.(string)
		case "job_url":
			row.JobURL = v.(string)
		case "notes":
			row.Notes = v.(string)
		}
	}
	row.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	m.rows[id] = row
	app := fromRow(row)
	return &app, nil
}

func (m *MemoryRepository) Remove(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.find(owner, id); !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	delete(m.seq, id)
	return nil
}

func (m *MemoryRepository) AddInterviewNote(ctx context.Context, owner, id string, note InterviewNote) (*JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.find(owner, id)
	if !ok {
		return nil, ErrNotFound
	}
	row.InterviewPrep = append(append([]InterviewNote{}, row.InterviewPrep...), note)
	row.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	m.rows[id] = row
	app := fromRow(row)
	return &app, nil
}
