// Package repository contains the data access abstractions for events and
// document metadata. The in-memory implementations in the memory subpackage
// are the only ones this system ships: storage is volatile by design and does
// not survive a restart.
package repository

import (
	"context"
	"errors"

	"tenanthub/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when inserting a record whose id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// DocumentRepository holds document metadata keyed by document id.
// No business logic here; visibility filtering belongs to the service layer.
type DocumentRepository interface {
	// Insert stores a new document record. Inserting an existing id fails
	// with ErrDuplicateID.
	Insert(ctx context.Context, doc *model.Document) error

	// FindByID returns the document with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// All returns every stored document in unspecified order.
	All(ctx context.Context) ([]model.Document, error)

	// Delete removes the document with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// EventRepository holds events partitioned by tenant, each partition an
// append-only sequence in insertion order.
type EventRepository interface {
	// Append adds the event to its tenant's sequence, creating the sequence
	// on first use.
	Append(ctx context.Context, ev *model.Event) error

	// ListByTenant returns the tenant's events in append order.
	ListByTenant(ctx context.Context, tenantID string) ([]model.Event, error)
}
