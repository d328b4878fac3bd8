// Package store persists tally documents (grade books, rental desks and
// saved score results) as JSON blobs on the local disk, S3 or GCS.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tallybook/tally/pkg/config"
)

// Document kinds.
const (
	KindGradebook = "gradebooks"
	KindDesk      = "desks"
	KindScore     = "scores"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidKey is returned for namespaces and ids that are not safe
	// object key segments.
	ErrInvalidKey = errors.New("invalid document key")
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// StorageClient abstracts blob storage for tally documents. Documents are
// addressed by namespace, kind and id.
type StorageClient interface {
	PutDocument(ctx context.Context, namespace, kind, id string, data []byte) error
	GetDocument(ctx context.Context, namespace, kind, id string) ([]byte, error)
	ListDocuments(ctx context.Context, namespace, kind string) ([]string, error)
}

// New returns the StorageClient selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "", config.BackendLocal:
		dir := cfg.Dir
		if dir == "" {
			dir = config.DataDir()
		}
		return NewLocalStorage(dir), nil
	case config.BackendS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case config.BackendGCS:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("gcs storage requires a bucket")
		}
		return NewGCSStorage(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// CheckKey reports whether s can be used as a namespace or document id.
func CheckKey(s string) error {
	if !validKey.MatchString(s) || strings.Contains(s, "..") {
		return fmt.Errorf("%w %q", ErrInvalidKey, s)
	}
	return nil
}

func objectKey(namespace, kind, id string) (string, error) {
	for _, k := range []string{namespace, id} {
		if err := CheckKey(k); err != nil {
			return "", err
		}
	}
	return namespace + "/" + kind + "/" + id + ".json", nil
}

func prefix(namespace, kind string) (string, error) {
	if err := CheckKey(namespace); err != nil {
		return "", err
	}
	return namespace + "/" + kind + "/", nil
}

// idFromKey strips the prefix and .json suffix of an object key.
func idFromKey(pfx, key string) (string, bool) {
	if !strings.HasPrefix(key, pfx) || !strings.HasSuffix(key, ".json") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, pfx), ".json")
	if strings.Contains(id, "/") || id == "" {
		return "", false
	}
	return id, true
}

// LocalStorage implements StorageClient using the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(namespace, kind, id string) (string, error) {
	key, err := objectKey(namespace, kind, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, filepath.FromSlash(key)), nil
}

// PutDocument writes a document, replacing any previous version.
func (s *LocalStorage) PutDocument(ctx context.Context, namespace, kind, id string, data []byte) error {
	path, err := s.path(namespace, kind, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GetDocument reads a document.
func (s *LocalStorage) GetDocument(ctx context.Context, namespace, kind, id string) ([]byte, error) {
	path, err := s.path(namespace, kind, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// ListDocuments returns the ids of a kind in a namespace, sorted.
func (s *LocalStorage) ListDocuments(ctx context.Context, namespace, kind string) ([]string, error) {
	pfx, err := prefix(namespace, kind)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.BaseDir, filepath.FromSlash(pfx)))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := idFromKey("", e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
