// Package notify provides an in-process subscription hub for participation
// changes. It replaces cross-component refresh signaling through a global
// emitter with an explicit observer interface: components subscribe on setup
// and unsubscribe on teardown.
package notify

import (
	"sync"

	"eventmingle/internal/domain"
)

// Handler receives one committed participation change.
type Handler func(change domain.ParticipationChange)

// Hub fans committed participation changes out to subscribers. It implements
// domain.ParticipationNotifier. The zero value is not usable; use NewHub.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]Handler
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
// Unsubscribing twice is safe.
func (h *Hub) Subscribe(fn Handler) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// NotifyParticipationChanged delivers the change to every current subscriber,
// synchronously and in unspecified order.
func (h *Hub) NotifyParticipationChanged(change domain.ParticipationChange) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}
