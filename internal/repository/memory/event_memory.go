package memory

import (
	"context"
	"sync"

	"tenanthub/internal/model"
	"tenanthub/internal/repository"
)

type eventMemory struct {
	mu     sync.RWMutex
	events map[string][]model.Event
}

// NewEventMemory creates an empty in-memory event repository.
func NewEventMemory() repository.EventRepository {
	return &eventMemory{events: make(map[string][]model.Event)}
}

func (r *eventMemory) Append(_ context.Context, ev *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[ev.TenantID] = append(r.events[ev.TenantID], *ev)
	return nil
}

func (r *eventMemory) ListByTenant(_ context.Context, tenantID string) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Event(nil), r.events[tenantID]...), nil
}
