// internal/app/features/chat/hub.go
package chat

import "sync"

// Hub fans chat snapshots out to the websocket subscribers of each
// room. One Hub serves the whole process; rooms appear when their first
// subscriber arrives and vanish with their last.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Subscription]struct{}
}

// Subscription is one subscriber's feed. C delivers full room snapshots
// and is closed on Unsubscribe.
type Subscription struct {
	C      chan []byte
	closed bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber for the room.
func (h *Hub) Subscribe(roomID string) *Subscription {
	sub := &Subscription{C: make(chan []byte, 8)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Subscription]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Safe to
// call more than once.
func (h *Hub) Unsubscribe(roomID string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.rooms[roomID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if !sub.closed {
		sub.closed = true
		close(sub.C)
	}
}

// Broadcast delivers the payload to every subscriber of the room. Slow
// subscribers with a full buffer are skipped; they catch up on the next
// broadcast since every payload is a full snapshot.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.rooms[roomID] {
		select {
		case sub.C <- payload:
		default:
		}
	}
}

// SubscriberCount reports the current number of subscribers in a room.
func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}
