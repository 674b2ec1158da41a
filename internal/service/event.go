package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"tenanthub/internal/broker"
	"tenanthub/internal/model"
	"tenanthub/internal/repository"
)

var (
	ErrTenantRequired  = errors.New("tenant id is required")
	ErrMessageRequired = errors.New("message is required")
)

// EventService defines the use case for tenant-scoped events.
type EventService interface {
	// CreateAndPublish appends a new event to the tenant's sequence and then
	// publishes its JSON form to the broker topic equal to the tenant id, so
	// only same-tenant subscribers receive it.
	CreateAndPublish(ctx context.Context, tenantID, message string) (*model.Event, error)
}

type eventService struct {
	repo   repository.EventRepository
	broker broker.Broker
	log    zerolog.Logger

	// Serializes append+publish so subscribers observe each tenant's events
	// in the same order they were appended.
	mu sync.Mutex

	published *prometheus.CounterVec
}

// NewEventService constructs an EventService and registers its published-event
// counter on reg.
func NewEventService(repo repository.EventRepository, b broker.Broker, log zerolog.Logger, reg prometheus.Registerer) (EventService, error) {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published, per tenant.",
		},
		[]string{"tenant"},
	)
	if err := reg.Register(published); err != nil {
		return nil, err
	}
	return &eventService{
		repo:      repo,
		broker:    b,
		log:       log.With().Str("component", "event_service").Logger(),
		published: published,
	}, nil
}

func (s *eventService) CreateAndPublish(ctx context.Context, tenantID, message string) (*model.Event, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	if message == "" {
		return nil, ErrMessageRequired
	}

	ev := &model.Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Append(ctx, ev); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	s.broker.Publish(tenantID, payload)
	s.published.WithLabelValues(tenantID).Inc()

	s.log.Info().
		Str("event_id", ev.ID).
		Str("tenant_id", tenantID).
		Msg("event created and published")
	return ev, nil
}
