package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrack/jobtrack/pkg/logger"
	"github.com/jobtrack/jobtrack/pkg/metrics"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("user identity required")
)

// ObjectStore is the blob side of document storage. storage.MinIOStorage
// satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Presign(ctx context.Context, key string, expires time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

const presignTTL = time.Hour

type Service struct {
	repo  Repository
	store ObjectStore
}

func NewService(repo Repository, store ObjectStore) *Service {
	return &Service{repo: repo, store: store}
}

// Upload stores the blob first, then the metadata row. If the row insert
// fails the orphaned object is cleaned up best-effort.
func (s *Service) Upload(ctx context.Context, owner, fileName string, body io.Reader, size int64, contentType string) (*Document, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	fileName = strings.TrimSpace(path.Base(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}

	key := fmt.Sprintf("%s/%s/%s", owner, uuid.NewString(), fileName)
	if err := s.store.Upload(ctx, key, body, size, contentType); err != nil {
		metrics.DocumentUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	doc, err := s.repo.Create(ctx, owner, fileName, key)
	if err != nil {
		metrics.DocumentUploads.WithLabelValues("error").Inc()
		if rerr := s.store.Remove(ctx, key); rerr != nil {
			logger.Warnf("documents: orphan cleanup for %s failed: %v", key, rerr)
		}
		return nil, err
	}
	metrics.DocumentUploads.WithLabelValues("ok").Inc()
	doc.FileURL = s.resolveURL(ctx, doc.FileURL)
	return doc, nil
}

// List returns the owner's documents with FileURL resolved: stored http(s)
// URLs pass through untouched, object keys are presigned for one hour, and a
// signing failure yields an empty URL rather than failing the listing.
func (s *Service) List(ctx context.Context, owner string) ([]Document, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	docs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].FileURL = s.resolveURL(ctx, docs[i].FileURL)
	}
	return docs, nil
}

// Delete removes the blob and then the metadata row. A blob removal failure
// is logged but does not keep the row alive.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	doc, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(doc.FileURL, "http") {
		if err := s.store.Remove(ctx, doc.FileURL); err != nil {
			logger.Warnf("documents: blob removal for %s failed: %v", doc.FileURL, err)
		}
	}
	return s.repo.Remove(ctx, owner, id)
}

func (s *Service) resolveURL(ctx context.Context, stored string) string {
	if strings.HasPrefix(stored, "http") {
		return stored
	}
	signed, err := s.store.Presign(ctx, stored, presignTTL)
	if err != nil {
		logger.Warnf("documents: presign for %s failed: %v", stored, err)
		return ""
	}
	return signed
}
