package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fsStorage stores blobs under an uploads root on the local filesystem, one
// directory per tenant.
type fsStorage struct {
	root string
}

// NewFilesystem creates a filesystem-backed Storage rooted at root. The root
// directory is created if missing.
func NewFilesystem(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("uploads root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &fsStorage{root: abs}, nil
}

// resolve maps a storage key to an absolute path and rejects any key that
// would escape the uploads root. Keys are built from generated ids, so this
// only fires on programming errors or hostile callers below the service.
func (s *fsStorage) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path == s.root || !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}

func (s *fsStorage) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	// MkdirAll is idempotent: repeated uploads for the same tenant must never
	// fail because the directory already exists.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create tenant directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create blob file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Do not leave a partial blob behind.
		_ = os.Remove(path)
		return 0, fmt.Errorf("write blob: %w", err)
	}
	return n, nil
}

func (s *fsStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *fsStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
