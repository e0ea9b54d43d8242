package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"noteful/internal/logger"

	"github.com/oklog/ulid/v2"
)

// Subscriber is one stream connection receiving events.
type Subscriber struct {
	ID          ulid.ULID
	ConnectedAt time.Time
	Ch          chan Event
	Done        chan struct{}
}

// Hub fans resource events out to every connected subscriber. A slow
// subscriber never blocks a broadcast: when its outbox is full the event
// is dropped for that subscriber and counted.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[ulid.ULID]*Subscriber
	bufferSize  int
	dropped     atomic.Uint64
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subscribers: make(map[ulid.ULID]*Subscriber),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers connID and returns its subscriber together with a
// cancel func equivalent to Unsubscribe(connID).
func (h *Hub) Subscribe(connID ulid.ULID) (*Subscriber, func()) {
	sub := &Subscriber{
		ID:          connID,
		ConnectedAt: time.Now().UTC(),
		Ch:          make(chan Event, h.bufferSize),
		Done:        make(chan struct{}),
	}

	h.mu.Lock()
	if old, ok := h.subscribers[connID]; ok {
		close(old.Ch)
		close(old.Done)
	}
	h.subscribers[connID] = sub
	h.mu.Unlock()

	logger.L().Debug("stream subscriber added", "conn_id", connID.String())

	return sub, func() { h.Unsubscribe(connID) }
}

// Unsubscribe removes connID and closes its channels. Unknown ids are ignored,
// so calling it twice is safe.
func (h *Hub) Unsubscribe(connID ulid.ULID) {
	h.mu.Lock()
	sub, ok := h.subscribers[connID]
	if ok {
		delete(h.subscribers, connID)
		close(sub.Ch)
		close(sub.Done)
	}
	h.mu.Unlock()

	if ok {
		logger.L().Debug("stream subscriber removed", "conn_id", connID.String())
	}
}

// Broadcast delivers ev to every subscriber without blocking.
func (h *Hub) Broadcast(ctx context.Context, ev Event) {
	log := logger.L()
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("broadcasting event", "type", ev.Type, "resource", ev.Resource, "id", ev.ID)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subscribers {
		select {
		case sub.Ch <- ev:
		default:
			h.dropped.Add(1)
			log.Warn("outbox full, dropping event", "conn_id", id.String(), "type", ev.Type, "resource", ev.Resource)
		}
	}
}

// Stats returns the current subscriber count and the number of dropped events.
func (h *Hub) Stats() (subscribers int, dropped uint64) {
	h.mu.RLock()
	n := len(h.subscribers)
	h.mu.RUnlock()
	return n, h.dropped.Load()
}
