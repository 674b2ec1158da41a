package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tenanthub/internal/model"
	"tenanthub/internal/policy"
	"tenanthub/internal/repository"
	"tenanthub/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrNotFound covers both "does not exist" and "not visible to this user".
	// The two are deliberately indistinguishable so callers cannot probe for
	// the existence of other tenants' documents.
	ErrNotFound = errors.New("document not found")

	// ErrNotAuthorized is returned when a non-admin attempts a delete.
	ErrNotAuthorized = errors.New("not authorized")

	ErrInvalidAccessLevel = errors.New("invalid access level")
)

// DocumentService defines the use cases for tenant-scoped documents. Every
// read, list and delete is checked against the access-control policy using
// the caller's identity.
type DocumentService interface {
	// Upload stores the content under a tenant-namespaced key derived from a
	// fresh document id plus the original extension (never the original
	// filename) and records metadata owned by the uploader's tenant. No
	// metadata is retained if the blob write fails.
	Upload(ctx context.Context, r io.Reader, originalFilename string, size int64, contentType string, user model.User, level model.AccessLevel) (*model.Document, error)

	// ListAccessible returns every document visible to the user. Order is
	// unspecified.
	ListAccessible(ctx context.Context, user model.User) ([]model.Document, error)

	// FindForDownload returns the document and an open reader over its blob,
	// only if the document exists and is visible to the user; otherwise
	// ErrNotFound. The caller owns the returned reader.
	FindForDownload(ctx context.Context, id string, user model.User) (*model.Document, io.ReadCloser, error)

	// Delete removes a document's blob and metadata. Only admins may delete,
	// and only documents visible to them. If the blob removal fails the
	// metadata is retained for diagnosis and the error is surfaced.
	Delete(ctx context.Context, id string, user model.User) error
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	log   zerolog.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log zerolog.Logger) DocumentService {
	return &documentService{
		store: store,
		repo:  repo,
		log:   log.With().Str("component", "document_service").Logger(),
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, size int64, contentType string, user model.User, level model.AccessLevel) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !level.Valid() {
		return nil, ErrInvalidAccessLevel
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		TenantID:    user.TenantID,
		Filename:    originalFilename,
		UploadedBy:  user.ID,
		UploadDate:  time.Now().UTC(),
		AccessLevel: level,
		ContentType: contentType,
	}
	doc.StorageFilename = doc.ID + filepath.Ext(originalFilename)

	written, err := s.store.Put(ctx, doc.StorageKey(), r, storage.PutOptions{
		Size:        size,
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error().
			Str("op", "upload").
			Str("tenant_id", user.TenantID).
			Str("document_id", doc.ID).
			Err(err).
			Msg("blob write failed")
		return nil, fmt.Errorf("write blob: %w", err)
	}
	doc.Size = written

	if err := s.repo.Insert(ctx, doc); err != nil {
		// Roll back the blob so a failed insert leaves no orphan either way.
		if delErr := s.store.Delete(ctx, doc.StorageKey()); delErr != nil {
			return nil, fmt.Errorf("store metadata: %v; rollback delete failed: %w", err, delErr)
		}
		return nil, fmt.Errorf("store metadata: %w", err)
	}

	s.log.Info().
		Str("document_id", doc.ID).
		Str("tenant_id", user.TenantID).
		Str("uploaded_by", user.ID).
		Str("access_level", string(level)).
		Msg("document uploaded")
	return doc, nil
}

func (s *documentService) ListAccessible(ctx context.Context, user model.User) ([]model.Document, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Document, 0, len(all))
	for _, doc := range all {
		if policy.Visible(user, doc) {
			visible = append(visible, doc)
		}
	}
	return visible, nil
}

func (s *documentService) FindForDownload(ctx context.Context, id string, user model.User) (*model.Document, io.ReadCloser, error) {
	doc, err := s.findVisible(ctx, id, user)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Get(ctx, doc.StorageKey())
	if err != nil {
		s.log.Error().
			Str("op", "download").
			Str("tenant_id", doc.TenantID).
			Str("document_id", doc.ID).
			Err(err).
			Msg("blob read failed")
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return doc, rc, nil
}

func (s *documentService) Delete(ctx context.Context, id string, user model.User) error {
	if id == "" {
		return ErrIDRequired
	}
	// Role gate first: a non-admin attempt must fail without touching
	// storage and without revealing whether the document exists.
	if user.Role != model.RoleAdmin {
		s.log.Warn().
			Str("user_id", user.ID).
			Str("document_id", id).
			Msg("non-admin delete attempt")
		return ErrNotAuthorized
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	// An admin may only delete documents visible to them, which keeps the
	// delete inside their own tenant; invisible ids read as not found.
	if !policy.CanDelete(user, *doc) {
		return ErrNotFound
	}

	// Blob first. On failure the metadata stays so the record remains
	// diagnosable and the delete can be retried.
	if err := s.store.Delete(ctx, doc.StorageKey()); err != nil {
		s.log.Error().
			Str("op", "delete").
			Str("tenant_id", doc.TenantID).
			Str("document_id", doc.ID).
			Err(err).
			Msg("blob delete failed, metadata retained")
		return fmt.Errorf("delete blob: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	s.log.Info().
		Str("document_id", id).
		Str("tenant_id", doc.TenantID).
		Msg("document deleted")
	return nil
}

// findVisible returns the document only if it exists and the user may see it;
// both failure modes collapse into ErrNotFound.
func (s *documentService) findVisible(ctx context.Context, id string, user model.User) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !policy.Visible(user, *doc) {
		return nil, ErrNotFound
	}
	return doc, nil
}
