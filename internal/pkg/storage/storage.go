package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/taskfox/taskfox/internal/pkg/env"
)

// BlobStore persists rendered artifacts (invoice PDFs) under namespaced keys.
// Keys use forward slashes, e.g. "invoices/user@example.com/INV-....pdf".
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// NewFromEnv selects the S3 store when S3 settings are configured, otherwise
// falls back to the local filesystem store.
func NewFromEnv() (BlobStore, error) {
	if env.GetEnv("S3_BUCKET", "") != "" {
		store, err := NewS3Store(S3ConfigFromEnv())
		if err != nil {
			return nil, err
		}
		log.Infof("[Storage] Using S3 blob store, bucket %s", env.GetEnv("S3_BUCKET", ""))
		return store, nil
	}

	root := env.GetEnv("STORAGE_PATH", "./storage")
	log.Infof("[Storage] Using local blob store at %s", root)
	return NewLocalStore(root), nil
}

// LocalStore writes blobs below a root directory on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore creates a filesystem-backed blob store rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(s.root, filepath.Clean("/"+key)), nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_ = ctx
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	_ = ctx
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ErrBlobNotFound marks a missing artifact so callers can surface the
// row-exists-but-file-missing inconsistency instead of hiding it.
var ErrBlobNotFound = fmt.Errorf("blob not found")
