package notify

import (
	"sync"

	"github.com/sirupsen/logrus"

	"imobi/server/internal/models"
	"imobi/server/internal/store"
)

// Hub fans property snapshots out to registered subscribers. Backends hold
// one hub and publish after every successful write.
type Hub struct {
	mu       sync.RWMutex
	handlers map[int]store.Handler
	nextID   int
	closed   bool
	logger   *logrus.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		handlers: make(map[int]store.Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler and returns its cancellation function.
// Cancelling stops future deliveries; calling it repeatedly is safe.
func (h *Hub) Subscribe(handler store.Handler) store.Unsubscribe {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.logger.Warn("Subscribe on closed hub, returning no-op subscription")
		return func() {}
	}

	id := h.nextID
	h.nextID++
	h.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers, id)
		})
	}
}

// Publish delivers the snapshot to every subscriber. Each handler receives
// its own copy so no observer can mutate another's view.
func (h *Hub) Publish(snapshot []models.Property) {
	h.mu.RLock()
	handlers := make([]store.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		own := make([]models.Property, len(snapshot))
		copy(own, snapshot)
		handler(own)
	}
}

// Len returns the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}

// Close drops all subscribers and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.handlers = make(map[int]store.Handler)
}
