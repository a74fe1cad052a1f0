package docstore

import (
	"context"
	"sync"
)

type hubKey struct {
	collection string
	uid        string
}

// Hub fans changes out to the subscriptions of this process.
type Hub struct {
	mu   sync.RWMutex
	subs map[hubKey]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[hubKey]map[*Subscription]struct{})}
}

// Publish makes Hub usable as a Notifier for single-instance setups.
func (h *Hub) Publish(_ context.Context, change Change) error {
	h.Dispatch(change)
	return nil
}

func (h *Hub) Dispatch(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[hubKey{change.Collection, change.UID}] {
		sub.notify()
	}
}

// Len is the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

func (h *Hub) add(sub *Subscription) {
	key := hubKey{sub.collection, sub.filter.UID}
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(sub *Subscription) {
	key := hubKey{sub.collection, sub.filter.UID}
	h.mu.Lock()
	if set := h.subs[key]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
	h.mu.Unlock()
}
