package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory implements Store with the same semantics as the Postgres
// backend, including versioned CAS. It backs the test suite and local
// development without a database.
type Memory struct {
	mu   sync.Mutex
	seq  int64
	docs map[string]map[string]memDoc // collection -> id -> doc
	bus  *broadcaster
}

type memDoc struct {
	data    []byte
	version int64
	order   int64 // insertion sequence, List ordering
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]memDoc),
		bus:  newBroadcaster(),
	}
}

func (s *Memory) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.Lock()
	d, ok := s.docs[collection][id]
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(d.data, out)
}

func (s *Memory) Put(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	col := s.collection(collection)
	prev, existed := col[id]
	next := memDoc{data: data, version: 1, order: s.nextSeq()}
	if existed {
		next.version = prev.version + 1
		next.order = prev.order
	}
	col[id] = next
	s.mu.Unlock()

	s.bus.publish(Event{Collection: collection, ID: id, Data: data, Version: next.version})
	return nil
}

func (s *Memory) Create(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	col := s.collection(collection)
	if _, exists := col[id]; exists {
		s.mu.Unlock()
		return ErrExists
	}
	col[id] = memDoc{data: data, version: 1, order: s.nextSeq()}
	s.mu.Unlock()

	s.bus.publish(Event{Collection: collection, ID: id, Data: data, Version: 1})
	return nil
}

func (s *Memory) Update(ctx context.Context, collection, id string, maxRetries int, mutate Mutator) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		s.mu.Lock()
		d, ok := s.docs[collection][id]
		s.mu.Unlock()
		if !ok {
			return ErrNotFound
		}

		// The mutator runs outside the lock, mirroring the database
		// round trip; the version check below is the commit point.
		next, err := mutate(d.data)
		if err == ErrUnchanged {
			return nil
		}
		if err != nil {
			return err
		}

		s.mu.Lock()
		cur, ok := s.docs[collection][id]
		if !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
		if cur.version != d.version {
			s.mu.Unlock()
			continue // lost the race, re-read
		}
		committed := memDoc{data: next, version: cur.version + 1, order: cur.order}
		s.docs[collection][id] = committed
		s.mu.Unlock()

		s.bus.publish(Event{Collection: collection, ID: id, Data: next, Version: committed.version})
		return nil
	}
	return ErrContention
}

func (s *Memory) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	col, ok := s.docs[collection]
	if ok {
		_, ok = col[id]
	}
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(col, id)
	s.mu.Unlock()

	s.bus.publish(Event{Collection: collection, ID: id, Deleted: true})
	return nil
}

func (s *Memory) List(ctx context.Context, collection string) ([]Doc, error) {
	s.mu.Lock()
	col := s.docs[collection]
	type entry struct {
		doc   Doc
		order int64
	}
	entries := make([]entry, 0, len(col))
	for id, d := range col {
		data := make([]byte, len(d.data))
		copy(data, d.data)
		entries = append(entries, entry{
			doc:   Doc{ID: id, Data: data, Version: d.version},
			order: d.order,
		})
	}
	s.mu.Unlock()

	// Insertion order, matching the Postgres updated_at ordering closely
	// enough for append-only collections.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].order < entries[j-1].order; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	docs := make([]Doc, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return docs, nil
}

func (s *Memory) Subscribe(collection, id string, fn func(Event)) func() {
	return s.bus.subscribe(collection, id, fn)
}

func (s *Memory) collection(name string) map[string]memDoc {
	col, ok := s.docs[name]
	if !ok {
		col = make(map[string]memDoc)
		s.docs[name] = col
	}
	return col
}

func (s *Memory) nextSeq() int64 {
	s.seq++
	return s.seq
}
