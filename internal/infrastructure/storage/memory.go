package storage

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store used by tests and single-instance
// runs. Watchers observe every mutation, including their own instance's;
// callers that need to ignore self-writes deduplicate against their current
// state.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	watchers map[chan Change]struct{}
	closed   bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		watchers: make(map[chan Change]struct{}),
	}
}

// Get returns the value for key and whether it was present
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set writes a single key
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	return s.SetMulti(ctx, map[string]string{key: value})
}

// SetMulti writes several keys atomically
func (s *MemoryStore) SetMulti(_ context.Context, kv map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range kv {
		s.values[k] = v
		s.broadcast(Change{Key: k, Value: v, Op: OpSet})
	}
	return nil
}

// Delete removes the given keys atomically
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
		s.broadcast(Change{Key: k, Op: OpDelete})
	}
	return nil
}

// Watch returns a channel of changes until ctx is cancelled
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 16)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}()

	return ch, nil
}

// Close releases all watchers
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for ch := range s.watchers {
		delete(s.watchers, ch)
		close(ch)
	}
	return nil
}

// broadcast must be called with the lock held. Slow watchers drop changes
// rather than block writers.
func (s *MemoryStore) broadcast(change Change) {
	for ch := range s.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
