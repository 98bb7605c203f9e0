package relay

import (
	"context"
	"sync"
)

// inflight lets one submission per nullifier reach the chain at a time.
type inflight struct {
	mu      sync.Mutex
	waiting map[string]chan struct{}
}

func newInflight() *inflight {
	return &inflight{waiting: make(map[string]chan struct{})}
}

// acquire blocks until key is free and returns the function releasing it.
func (f *inflight) acquire(ctx context.Context, key string) (func(), error) {
	for {
		f.mu.Lock()
		done, busy := f.waiting[key]
		if !busy {
			ch := make(chan struct{})
			f.waiting[key] = ch
			f.mu.Unlock()
			return func() {
				f.mu.Lock()
				delete(f.waiting, key)
				f.mu.Unlock()
				close(ch)
			}, nil
		}
		f.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
