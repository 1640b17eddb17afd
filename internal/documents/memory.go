package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository mirrors the Mongo repository for tests and local runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]documentRow
	seq  map[string]int
	next int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]documentRow), seq: make(map[string]int)}
}

func (r *MemoryRepository) List(ctx context.Context, owner string) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Document{}
	ids := []string{}
	for id, row := range r.rows {
		if row.UserID == owner {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.rows[ids[i]], r.rows[ids[j]]
		if !a.UploadedAt.Equal(b.UploadedAt) {
			return a.UploadedAt.After(b.UploadedAt)
		}
		return r.seq[ids[i]] > r.seq[ids[j]]
	})
	for _, id := range ids {
		out = append(out, fromRow(r.rows[id]))
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, owner, id string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != owner {
		return nil, ErrNotFound
	}
	doc := fromRow(row)
	return &doc, nil
}

func (r *MemoryRepository) Create(ctx context.Context, owner, fileName, fileURL string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := documentRow{
		ID:         uuid.NewString(),
		UserID:     owner,
		FileName:   fileName,
		FileURL:    fileURL,
		UploadedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	r.rows[row.ID] = row
	r.next++
	r.seq[row.ID] = r.next
	doc := fromRow(row)
	return &doc, nil
}

func (r *MemoryRepository) Remove(ctx context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != owner {
		return ErrNotFound
	}
	delete(r.rows, id)
	delete(r.seq, id)
	return nil
}
