// Package notification provides the notification manager for surfacing
// user-visible messages.
package notification

import (
	"sync"

	"github.com/google/uuid"
)

// Level represents the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink receives notifications. Delivery is fire-and-forget; no return value
// is consumed by the emitting side.
type Sink interface {
	Notify(level Level, message string)
}

// subscription represents a subscriber's registration.
type subscription struct {
	id   string
	sink Sink
}

// Manager fans notifications out to all subscribers. It implements Sink
// itself so components only ever hold the narrow interface.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
}

var _ Sink = (*Manager)(nil)

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a sink and returns its subscription ID.
func (m *Manager) Subscribe(sink Sink) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{id: id, sink: sink}
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// Notify delivers a message to every subscriber.
func (m *Manager) Notify(level Level, message string) {
	m.mu.Lock()
	m.sequenceNo++
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.Unlock()

	for _, sub := range subs {
		sub.sink.Notify(level, message)
	}
}

// SequenceNo returns the number of notifications emitted so far.
func (m *Manager) SequenceNo() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sequenceNo
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}
