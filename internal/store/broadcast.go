package store

import "sync"

// broadcaster fans change events out to subscribers in-process. Both
// store implementations publish through one of these after a successful
// commit; a multi-instance deployment would need LISTEN/NOTIFY or a
// broker in front of it.
type broadcaster struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

type subscription struct {
	collection string
	id         string // empty = whole collection
	fn         func(Event)
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]subscription)}
}

func (b *broadcaster) subscribe(collection, id string, fn func(Event)) func() {
	b.mu.Lock()
	key := b.next
	b.next++
	b.subs[key] = subscription{collection: collection, id: id, fn: fn}
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, key)
		b.mu.Unlock()
	}
}

func (b *broadcaster) publish(ev Event) {
	b.mu.RLock()
	var targets []func(Event)
	for _, s := range b.subs {
		if s.collection != ev.Collection {
			continue
		}
		if s.id != "" && s.id != ev.ID {
			continue
		}
		targets = append(targets, s.fn)
	}
	b.mu.RUnlock()

	// Callbacks run outside the lock so a subscriber may unsubscribe
	// from within its own callback.
	for _, fn := range targets {
		go fn(ev)
	}
}
