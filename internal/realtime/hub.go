package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"

	"datefinder/internal/entities"
)

const subscriberBuffer = 8

// Hub fans full event snapshots out to active subscribers, keyed by event
// code. Every successful mutation publishes a complete replacement
// snapshot; subscribers never receive deltas. A nil snapshot signals that
// the event no longer exists.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *entities.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan *entities.Event]struct{})}
}

// Subscribe registers a listener for one event code. The returned cancel
// function releases the subscription and closes the channel; callers must
// invoke it when done.
func (h *Hub) Subscribe(code string) (<-chan *entities.Event, func()) {
	ch := make(chan *entities.Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[code] == nil {
		h.subs[code] = make(map[chan *entities.Event]struct{})
	}
	h.subs[code][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[code], ch)
			if len(h.subs[code]) == 0 {
				delete(h.subs, code)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers snapshot to every subscriber of code. Each subscriber
// gets its own deep copy. A subscriber whose buffer is full is skipped
// rather than blocking the write path; it catches up on the next publish.
func (h *Hub) Publish(code string, snapshot *entities.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[code] {
		select {
		case ch <- snapshot.Clone():
		default:
			log.Warn().Str("event", code).Msg("slow subscriber, snapshot dropped")
		}
	}
}

// Subscribers reports how many listeners an event currently has.
func (h *Hub) Subscribers(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[code])
}
