package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	content := []byte("%PDF-1.4 fake report")
	n, err := store.Put(ctx, "company_a/doc-1.pdf", bytes.NewReader(content), PutOptions{
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	rc, err := store.Get(ctx, "company_a/doc-1.pdf")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFilesystemIdempotentTenantDirectory(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	// Repeated uploads for the same tenant must never fail because the
	// tenant directory already exists.
	for i, key := range []string{"company_a/one.txt", "company_a/two.txt", "company_a/three.txt"} {
		_, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{Size: 1})
		require.NoError(t, err, "upload %d", i)
	}
}

func TestFilesystemTenantLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	_, err = store.Put(ctx, "company_a/doc-1.pdf", strings.NewReader("a"), PutOptions{Size: 1})
	require.NoError(t, err)
	_, err = store.Put(ctx, "company_b/doc-2.pdf", strings.NewReader("b"), PutOptions{Size: 1})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "company_a", "doc-1.pdf"))
	assert.FileExists(t, filepath.Join(root, "company_b", "doc-2.pdf"))
}

func TestFilesystemRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	for _, key := range []string{"../outside.txt", "company_a/../../etc/passwd", ".", ""} {
		t.Run(key, func(t *testing.T) {
			_, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{Size: 1})
			assert.Error(t, err)

			_, err = store.Get(ctx, key)
			assert.Error(t, err)

			assert.Error(t, store.Delete(ctx, key))
		})
	}
}

func TestFilesystemDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	_, err = store.Put(ctx, "company_a/doc.txt", strings.NewReader("x"), PutOptions{Size: 1})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "company_a/doc.txt"))
	assert.NoFileExists(t, filepath.Join(root, "company_a", "doc.txt"))

	assert.Error(t, store.Delete(ctx, "company_a/doc.txt"), "deleting a missing blob surfaces an error")
}

func TestFilesystemGetMissing(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "company_a/absent.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
