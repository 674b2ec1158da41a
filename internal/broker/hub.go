package broker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Hub is the single-process Broker implementation: a topic-keyed registry of
// subscribers. Fiber serves each connection on its own goroutine, so the
// registry is guarded by a mutex.
type Hub struct {
	log zerolog.Logger

	mu     sync.RWMutex
	topics map[string]map[string]Subscriber

	subscribers *prometheus.GaugeVec
}

// NewHub creates a Hub and registers its subscriber gauge on reg.
func NewHub(log zerolog.Logger, reg prometheus.Registerer) (*Hub, error) {
	h := &Hub{
		log:    log.With().Str("component", "broker").Logger(),
		topics: make(map[string]map[string]Subscriber),
		subscribers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "websocket_subscribers",
				Help: "Number of live subscribers per topic.",
			},
			[]string{"topic"},
		),
	}
	if err := reg.Register(h.subscribers); err != nil {
		return nil, err
	}
	return h, nil
}

// Subscribe registers sub under topic, creating the topic on first use.
func (h *Hub) Subscribe(topic string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[string]Subscriber)
		h.topics[topic] = subs
	}
	subs[sub.ID()] = sub
	h.subscribers.WithLabelValues(topic).Set(float64(len(subs)))

	h.log.Info().Str("topic", topic).Str("subscriber", sub.ID()).Msg("subscribed")
}

// Unsubscribe removes the subscriber with the given id from topic. Removing
// an unknown subscriber is a no-op.
func (h *Hub) Unsubscribe(topic, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, ok := subs[subID]; !ok {
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
	h.subscribers.WithLabelValues(topic).Set(float64(len(subs)))

	h.log.Info().Str("topic", topic).Str("subscriber", subID).Msg("unsubscribed")
}

// Publish delivers payload to every subscriber of topic. Send errors are
// logged and skipped; the failing connection is torn down by its own read
// loop, not here.
func (h *Hub) Publish(topic string, payload []byte) {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.topics[topic]))
	for _, s := range h.topics[topic] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.Send(payload); err != nil {
			h.log.Warn().
				Str("topic", topic).
				Str("subscriber", s.ID()).
				Err(err).
				Msg("dropping payload for subscriber")
		}
	}
}

// SubscriberCount returns the number of live subscribers for topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
