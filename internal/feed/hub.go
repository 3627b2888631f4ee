// Package feed fans full collection snapshots out to live subscribers.
package feed

import (
	"context"
	"sync"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Hub delivers snapshots per collection. Each subscription runs its own
// delivery goroutine; a slow subscriber only ever sees the latest snapshot.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*subscription
	nextID int
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscription)}
}

type subscription struct {
	mu      sync.Mutex
	pending chan []record.Record
	done    chan struct{}
	once    sync.Once
	fn      func([]record.Record)
}

// Subscribe registers fn for a collection and queues initial as its first
// delivery. The returned func cancels the subscription and waits for nothing;
// a delivery already in progress may still complete.
func (h *Hub) Subscribe(collection string, initial []record.Record, fn func([]record.Record)) func() {
	sub := &subscription{
		pending: make(chan []record.Record, 1),
		done:    make(chan struct{}),
		fn:      fn,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return func() {}
	}
	id := h.nextID
	h.nextID++
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]*subscription)
	}
	h.subs[collection][id] = sub
	h.mu.Unlock()

	sub.offer(initial)
	go sub.run()

	return func() {
		h.mu.Lock()
		delete(h.subs[collection], id)
		h.mu.Unlock()
		sub.stop()
	}
}

// HasSubscribers reports whether a publish to collection would reach anyone.
func (h *Hub) HasSubscribers(collection string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection]) > 0
}

// Publish queues snapshot for every subscriber of collection.
func (h *Hub) Publish(collection string, snapshot []record.Record) {
	h.mu.Lock()
	subs := make([]*subscription, 0, len(h.subs[collection]))
	for _, sub := range h.subs[collection] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.offer(snapshot)
	}
}

// Close stops every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.subs
	h.subs = make(map[string]map[int]*subscription)
	h.mu.Unlock()

	for _, byID := range all {
		for _, sub := range byID {
			sub.stop()
		}
	}
}

func (s *subscription) offer(snapshot []record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.pending:
	default:
	}
	s.pending <- snapshot
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case snapshot := <-s.pending:
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(snapshot)
		}
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// BindContext ties stop to ctx: stop runs when ctx is done. The returned
// func runs stop and releases the context hook.
func BindContext(ctx context.Context, stop func()) func() {
	if ctx == nil {
		return stop
	}
	release := context.AfterFunc(ctx, stop)
	return func() {
		release()
		stop()
	}
}
