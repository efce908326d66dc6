package cache

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Local is the in-process fallback cache: a bounded map with
// oldest-by-insertion eviction and read-time expiry. It is always available,
// so the pipeline keeps memoizing even without a remote backend.
type Local struct {
	mu       sync.Mutex
	entries  map[string]*localEntry
	order    []string // insertion order, oldest first
	capacity int
	now      func() time.Time
}

// NewLocal creates a local cache bounded to capacity entries
func NewLocal(capacity int) *Local {
	if capacity <= 0 {
		capacity = 100
	}
	return &Local{
		entries:  make(map[string]*localEntry, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached value if present and not expired. Expired entries
// are removed on read.
func (l *Local) Get(_ context.Context, key string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	if l.now().After(entry.expiresAt) {
		l.remove(key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value, evicting the oldest insertion when at capacity
func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[key]; ok {
		// Overwrite keeps the original insertion position.
		l.entries[key].value = value
		l.entries[key].expiresAt = l.now().Add(ttl)
		return
	}

	for len(l.entries) >= l.capacity && len(l.order) > 0 {
		l.remove(l.order[0])
	}

	l.entries[key] = &localEntry{
		key:       key,
		value:     value,
		expiresAt: l.now().Add(ttl),
	}
	l.order = append(l.order, key)
}

// Len reports the current entry count
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Close is a no-op for the in-process cache
func (l *Local) Close() error { return nil }

// remove deletes an entry and its insertion-order slot. Caller holds the lock.
func (l *Local) remove(key string) {
	delete(l.entries, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}
