// Package memory implements the repository interfaces with mutex-guarded
// in-process maps. Records live for the process lifetime only.
package memory

import (
	"context"
	"sync"

	"tenanthub/internal/model"
	"tenanthub/internal/repository"
)

type documentMemory struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

// NewDocumentMemory creates an empty in-memory document repository.
func NewDocumentMemory() repository.DocumentRepository {
	return &documentMemory{docs: make(map[string]model.Document)}
}

func (r *documentMemory) Insert(_ context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return repository.ErrDuplicateID
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *documentMemory) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *documentMemory) All(_ context.Context) ([]model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (r *documentMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
