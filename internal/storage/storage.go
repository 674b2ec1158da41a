// Package storage contains the blob storage abstraction for uploaded
// document content. Keys are slash-separated "<tenant_id>/<storage_filename>"
// paths, so every backend partitions blobs by tenant.
package storage

import (
	"context"
	"io"
)

// PutOptions carry optional parameters for storing a blob. Size should be the
// exact byte count if known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
}

// Storage is the byte-blob collaborator of the document service. All methods
// stream; no implementation buffers whole blobs in memory.
type Storage interface {
	// Put stores the reader's content under key and returns the number of
	// bytes written. The tenant prefix of the key is created on demand.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (int64, error)
	// Get opens the blob stored under key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error
}
