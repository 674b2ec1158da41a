// Package broker provides the in-process publish/subscribe fan-out used for
// real-time event delivery. Topics are tenant ids: a subscriber registered
// under one tenant's topic can never receive another tenant's payloads.
package broker

// Subscriber is a live receiver of published payloads, typically a wrapped
// WebSocket connection. Send must be safe for concurrent use.
type Subscriber interface {
	ID() string
	Send(payload []byte) error
}

// Broker is the minimal pub/sub capability consumed by the event service and
// driven by the transport layer. It exists as an interface so the fan-out can
// be tested without a network stack.
type Broker interface {
	// Publish delivers payload to every subscriber currently registered under
	// topic. Delivery is best effort: a failing subscriber never affects the
	// publisher or other subscribers.
	Publish(topic string, payload []byte)
	// Subscribe registers sub under topic, creating the topic on first use.
	Subscribe(topic string, sub Subscriber)
	// Unsubscribe removes the subscriber with the given id from topic.
	Unsubscribe(topic, subID string)
}
