package service

import (
	"sync"

	"github.com/mmynk/arisan/internal/diagnostics"
)

// inflight rejects a second reconcile or draw for a group while the first
// is still running.
type inflight struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newInflight() *inflight {
	return &inflight{busy: make(map[string]bool)}
}

// acquire marks key busy. The returned release must be called when done.
func (f *inflight) acquire(key string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy[key] {
		return nil, diagnostics.ErrBusy
	}
	f.busy[key] = true
	return func() {
		f.mu.Lock()
		delete(f.busy, key)
		f.mu.Unlock()
	}, nil
}
