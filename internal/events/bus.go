// Package events provides in-process event publishing and subscription
// for spoor. The canvas publishes write results here so consuming UI
// layers can surface or retry failures without blocking the interaction
// loop.
package events

import (
	"errors"
	"sync"
	"time"
)

// Type categorizes events in the system.
type Type string

const (
	TypeHuntCreated Type = "hunt.created"
	TypeHuntUpdated Type = "hunt.updated"
	TypeHuntDeleted Type = "hunt.deleted"

	TypeNodeCreated Type = "node.created"
	TypeNodeUpdated Type = "node.updated"

	// TypeWriteFailed is published when a persistence call fails. The
	// interaction state machine has already moved on; subscribers decide
	// whether to notify or retry.
	TypeWriteFailed Type = "write.failed"
)

// Event is a single occurrence in the system.
type Event struct {
	// Type categorizes the event.
	Type Type `json:"type"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// HuntID is the hunt the event relates to, if any.
	HuntID string `json:"huntId,omitempty"`

	// NodeID is the node the event relates to, if any.
	NodeID string `json:"nodeId,omitempty"`

	// Op names the failed operation for write.failed events
	// ("create", "update", "list").
	Op string `json:"op,omitempty"`

	// Err carries the error text for write.failed events.
	Err string `json:"err,omitempty"`
}

// Handler is a callback invoked when an event matches a subscription.
type Handler func(event Event)

// Filter defines criteria for matching events.
type Filter struct {
	// Types filters by event type (nil = all types).
	Types []Type

	// HuntID filters to a specific hunt (empty = all).
	HuntID string
}

// Matches returns true if the event matches the filter criteria.
func (f *Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if event.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.HuntID != "" && event.HuntID != f.HuntID {
		return false
	}
	return true
}

type subscription struct {
	id      string
	filter  Filter
	handler Handler
}

// Bus is an in-memory publisher. Handlers run synchronously on the
// publishing goroutine, outside the subscription lock.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subscriptions: make(map[string]*subscription)}
}

// Publish sends an event to all matching subscribers. A zero timestamp
// is filled in.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	var handlers []Handler
	for _, sub := range b.subscriptions {
		if sub.filter.Matches(event) {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Subscribe registers a handler to receive events matching the filter.
func (b *Bus) Subscribe(id string, filter Filter, handler Handler) error {
	if id == "" {
		return ErrInvalidSubscriptionID
	}
	if handler == nil {
		return ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[id]; exists {
		return ErrSubscriptionExists
	}
	b.subscriptions[id] = &subscription{id: id, filter: filter, handler: handler}
	return nil
}

// Unsubscribe removes a subscription by ID.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[id]; !exists {
		return ErrSubscriptionNotFound
	}
	delete(b.subscriptions, id)
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// Close removes all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string]*subscription)
}

// Errors for bus operations.
var (
	ErrInvalidSubscriptionID = errors.New("subscription id is required")
	ErrNilHandler            = errors.New("handler cannot be nil")
	ErrSubscriptionExists    = errors.New("subscription with this id already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
)
