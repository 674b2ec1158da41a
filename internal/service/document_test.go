package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tenanthub/internal/model"
	"tenanthub/internal/repository"
	"tenanthub/internal/repository/memory"
	repoMocks "tenanthub/internal/repository/mocks"
	"tenanthub/internal/storage"
	storeMocks "tenanthub/internal/storage/mocks"
)

var (
	adminA = model.User{ID: "admin_a", TenantID: "company_a", Role: model.RoleAdmin}
	userA  = model.User{ID: "user_a", TenantID: "company_a", Role: model.RoleMember}
	adminB = model.User{ID: "admin_b", TenantID: "company_b", Role: model.RoleAdmin}
)

func TestDocumentServiceUpload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		filename   string
		level      model.AccessLevel
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr    error
		wantErrMsg string
		checkDoc   func(t *testing.T, doc *model.Document)
	}{
		{
			name:     "happy path",
			filename: "report.pdf",
			level:    model.AccessPrivate,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("pdf bytes")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "company_a/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutOptions{Size: 9, ContentType: "application/pdf"}).
					Return(int64(9), nil)
				mRepo.On("Insert", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.TenantID == "company_a" &&
						doc.UploadedBy == "admin_a" &&
						doc.Filename == "report.pdf" &&
						doc.StorageFilename == doc.ID+".pdf"
				})).Return(nil)
				return r
			},
			checkDoc: func(t *testing.T, doc *model.Document) {
				assert.Equal(t, model.AccessPrivate, doc.AccessLevel)
				assert.Equal(t, int64(9), doc.Size)
				assert.NotEqual(t, doc.Filename, doc.StorageFilename)
			},
		},
		{
			name:     "nil reader",
			filename: "report.pdf",
			level:    model.AccessPrivate,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:     "invalid access level",
			filename: "report.pdf",
			level:    "public",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrInvalidAccessLevel,
		},
		{
			name:     "storage error leaves no metadata",
			filename: "report.pdf",
			level:    model.AccessPrivate,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(int64(0), errors.New("disk full"))
				// Insert is never expected.
				return r
			},
			wantErrMsg: "write blob: disk full",
		},
		{
			name:     "insert failure rolls back the blob",
			filename: "report.pdf",
			level:    model.AccessTenant,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(int64(1), nil)
				mRepo.On("Insert", ctx, mock.Anything).Return(repository.ErrDuplicateID)
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "store metadata",
		},
		{
			name:     "insert failure with failed rollback",
			filename: "report.pdf",
			level:    model.AccessTenant,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("x")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(int64(1), nil)
				mRepo.On("Insert", ctx, mock.Anything).Return(errors.New("insert fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo, zerolog.Nop())

			r := tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(ctx, r, tt.filename, 9, "application/pdf", adminA, tt.level)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.ErrorContains(t, err, tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, doc)
				if tt.checkDoc != nil {
					tt.checkDoc(t, doc)
				}
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentServiceListAccessible(t *testing.T) {
	ctx := context.Background()

	privateByUserA := model.Document{ID: "d1", TenantID: "company_a", UploadedBy: "user_a", AccessLevel: model.AccessPrivate}
	privateByAdminA := model.Document{ID: "d2", TenantID: "company_a", UploadedBy: "admin_a", AccessLevel: model.AccessPrivate}
	tenantWideA := model.Document{ID: "d3", TenantID: "company_a", UploadedBy: "admin_a", AccessLevel: model.AccessTenant}
	tenantWideB := model.Document{ID: "d4", TenantID: "company_b", UploadedBy: "admin_b", AccessLevel: model.AccessTenant}
	all := []model.Document{privateByUserA, privateByAdminA, tenantWideA, tenantWideB}

	tests := []struct {
		name    string
		user    model.User
		wantIDs []string
	}{
		{"admin sees everything in their tenant", adminA, []string{"d1", "d2", "d3"}},
		{"member sees tenant-wide plus their own private", userA, []string{"d1", "d3"}},
		{"outsider sees only their tenant", adminB, []string{"d4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			mRepo.On("All", ctx).Return(all, nil)
			svc := NewDocumentService(nil, mRepo, zerolog.Nop())

			docs, err := svc.ListAccessible(ctx, tt.user)
			require.NoError(t, err)

			ids := make([]string, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestDocumentServiceFindForDownload(t *testing.T) {
	ctx := context.Background()

	doc := model.Document{
		ID:              "d1",
		TenantID:        "company_a",
		Filename:        "report.pdf",
		StorageFilename: "d1.pdf",
		UploadedBy:      "admin_a",
		AccessLevel:     model.AccessPrivate,
	}

	t.Run("visible document streams its blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)
		mStore.On("Get", ctx, "company_a/d1.pdf").
			Return(io.NopCloser(strings.NewReader("pdf bytes")), nil)

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		got, rc, err := svc.FindForDownload(ctx, "d1", adminA)
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, "report.pdf", got.Filename)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(content))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing id reads as not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		svc := NewDocumentService(nil, mRepo, zerolog.Nop())
		_, _, err := svc.FindForDownload(ctx, "missing", adminA)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cross-tenant access reads as not found, blob untouched", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		_, _, err := svc.FindForDownload(ctx, "d1", adminB)
		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("invisible private doc reads as not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)

		svc := NewDocumentService(nil, mRepo, zerolog.Nop())
		_, _, err := svc.FindForDownload(ctx, "d1", userA)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blob open failure surfaces", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)
		mStore.On("Get", ctx, "company_a/d1.pdf").Return(nil, errors.New("io error"))

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		_, _, err := svc.FindForDownload(ctx, "d1", adminA)
		assert.ErrorContains(t, err, "open blob")
	})
}

func TestDocumentServiceDelete(t *testing.T) {
	ctx := context.Background()

	doc := model.Document{
		ID:              "d1",
		TenantID:        "company_a",
		StorageFilename: "d1.pdf",
		UploadedBy:      "admin_a",
		AccessLevel:     model.AccessPrivate,
	}

	t.Run("member is rejected before any lookup", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		err := svc.Delete(ctx, "d1", userA)

		assert.ErrorIs(t, err, ErrNotAuthorized)
		mRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes blob then metadata", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)
		mStore.On("Delete", ctx, "company_a/d1.pdf").Return(nil)
		mRepo.On("Delete", ctx, "d1").Return(nil)

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		require.NoError(t, svc.Delete(ctx, "d1", adminA))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("nonexistent id reads as not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		svc := NewDocumentService(nil, mRepo, zerolog.Nop())
		assert.ErrorIs(t, svc.Delete(ctx, "missing", adminA), ErrNotFound)
	})

	t.Run("cross-tenant admin reads as not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		assert.ErrorIs(t, svc.Delete(ctx, "d1", adminB), ErrNotFound)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("failed blob removal retains metadata", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "d1").Return(&doc, nil)
		mStore.On("Delete", ctx, "company_a/d1.pdf").Return(errors.New("io error"))

		svc := NewDocumentService(mStore, mRepo, zerolog.Nop())
		err := svc.Delete(ctx, "d1", adminA)

		assert.ErrorContains(t, err, "delete blob")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewDocumentService(nil, nil, zerolog.Nop())
		assert.ErrorIs(t, svc.Delete(ctx, "", adminA), ErrIDRequired)
	})
}

// TestDocumentLifecycle runs the full upload/list/download/delete scenario
// against the real in-memory repository and filesystem storage.
func TestDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	repo := memory.NewDocumentMemory()
	svc := NewDocumentService(store, repo, zerolog.Nop())

	content := []byte("quarterly numbers")
	doc, err := svc.Upload(ctx, bytes.NewReader(content), "report.pdf", int64(len(content)), "application/pdf", adminA, model.AccessPrivate)
	require.NoError(t, err)
	assert.Equal(t, "company_a", doc.TenantID)
	assert.Equal(t, "admin_a", doc.UploadedBy)
	assert.Equal(t, model.AccessPrivate, doc.AccessLevel)

	// A member of the same tenant sees nothing: the document is private and
	// not theirs.
	visible, err := svc.ListAccessible(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Neither download nor existence is revealed to them.
	_, _, err = svc.FindForDownload(ctx, doc.ID, userA)
	assert.ErrorIs(t, err, ErrNotFound)

	// The uploader round-trips the exact bytes and the original filename.
	got, rc, err := svc.FindForDownload(ctx, doc.ID, adminA)
	require.NoError(t, err)
	downloaded, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.NotEqual(t, got.Filename, got.StorageFilename)

	// Admin delete removes blob and metadata.
	require.NoError(t, svc.Delete(ctx, doc.ID, adminA))
	_, _, err = svc.FindForDownload(ctx, doc.ID, adminA)
	assert.ErrorIs(t, err, ErrNotFound)
}
