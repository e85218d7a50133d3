package library

import "sync"

// Subscription is a live handle onto the store's collection. C receives the
// full ordered collection after every durable mutation; slow consumers only
// ever see the latest snapshot.
type Subscription struct {
	C <-chan []*Record

	hub  *hub
	ch   chan []*Record
	once sync.Once
}

// Close detaches the subscription from the store and closes C.
func (sub *Subscription) Close() {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		sub.hub.unsubscribe(sub)
		close(sub.ch)
	})
}

type hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[*Subscription]struct{})}
}

func (h *hub) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed && len(h.subs) > 0
}

// publish delivers the snapshot to every subscriber. Each subscriber channel
// holds at most one pending snapshot; a stale undelivered snapshot is
// replaced rather than queued.
func (h *hub) publish(records []*Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		snapshot := make([]*Record, len(records))
		copy(snapshot, records)
		select {
		case sub.ch <- snapshot:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snapshot
		}
	}
}

func (h *hub) subscribe() *Subscription {
	ch := make(chan []*Record, 1)
	sub := &Subscription{C: ch, ch: ch}
	sub.hub = h

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

func (h *hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

func (h *hub) close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.closed = true
	h.subs = make(map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() {
			close(sub.ch)
		})
	}
}

// Watch subscribes to the live collection query. The first snapshot arrives
// after the next mutation; callers wanting an immediate view pair Watch with
// List. Close the subscription when done to stop delivery.
func (s *Store) Watch() *Subscription {
	return s.hub.subscribe()
}
