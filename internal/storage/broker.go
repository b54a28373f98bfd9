package storage

import "sync"

// Broker fans snapshots out to collection subscribers. Store implementations
// embed it and call Publish after committing a change.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(Snapshot)
}

// Add registers fn for collection and returns a function that removes it.
func (b *Broker) Add(collection string, fn func(Snapshot)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string]map[int]func(Snapshot))
	}
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[int]func(Snapshot))
	}
	id := b.nextID
	b.nextID++
	b.subs[collection][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[collection], id)
		})
	}
}

// HasSubscribers reports whether anyone listens on collection.
func (b *Broker) HasSubscribers(collection string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[collection]) > 0
}

// Publish calls every subscriber of snap.Collection. Subscribers run on the
// caller's goroutine and must not block.
func (b *Broker) Publish(snap Snapshot) {
	b.mu.Lock()
	fns := make([]func(Snapshot), 0, len(b.subs[snap.Collection]))
	for _, fn := range b.subs[snap.Collection] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
