package sse

import (
	"sync"
)

// Event is one message pushed to an employee's open event streams.
type Event struct {
	EmpID string
	Event string
	Data  interface{}
}

// Hub fans events out to the streams each employee has open.
type Hub struct {
	mu          sync.RWMutex
	buffer      int
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		buffer:      16,
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for empID. The returned func unregisters and closes it.
func (h *Hub) Subscribe(empID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[empID] == nil {
		h.subscribers[empID] = make(map[chan Event]struct{})
	}
	h.subscribers[empID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[empID], ch)
			close(ch)
			if len(h.subscribers[empID]) == 0 {
				delete(h.subscribers, empID)
			}
		})
	}
	return ch, cleanup
}

// Publish delivers event to every stream of empID. Slow streams drop the event.
func (h *Hub) Publish(empID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.EmpID = empID
	for ch := range h.subscribers[empID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) PublishToMany(empIDs []string, event Event) {
	for _, empID := range empIDs {
		h.Publish(empID, event)
	}
}

func (h *Hub) SubscriberCount(empID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[empID])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
