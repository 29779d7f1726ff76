package cache

import (
	"container/list"
	"context"
	"path"
	"sync"
	"time"
)

// MemoryTier is the in-process fallback tier: a capacity-bounded LRU whose
// entries also expire individually by TTL. It has no external dependency and
// never fails, which is what makes it a safe degradation target.
type MemoryTier struct {
	capacity int
	entries  map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
	now      func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryTier creates a fallback tier bounded to capacity entries.
func NewMemoryTier(capacity int) *MemoryTier {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryTier{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Get returns the stored value, or ErrNotFound when the key is absent or its
// TTL has elapsed. Expired entries are removed on read.
func (t *MemoryTier) Get(_ context.Context, key string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	elem, ok := t.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	entry := elem.Value.(*memoryEntry)
	if t.now().After(entry.expiresAt) {
		t.lru.Remove(elem)
		delete(t.entries, key)
		return nil, ErrNotFound
	}
	t.lru.MoveToFront(elem)
	return entry.value, nil
}

// Set stores value under key, overwriting whole-value and evicting the
// least-recently-used entry when at capacity.
func (t *MemoryTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiresAt := t.now().Add(ttl)
	if elem, ok := t.entries[key]; ok {
		t.lru.MoveToFront(elem)
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return nil
	}

	elem := t.lru.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	t.entries[key] = elem

	if t.lru.Len() > t.capacity {
		oldest := t.lru.Back()
		if oldest != nil {
			t.lru.Remove(oldest)
			delete(t.entries, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

// DeletePattern enumerates keys and removes those matching the glob pattern.
// There is no native pattern-delete primitive here, so this is a full scan.
func (t *MemoryTier) DeletePattern(_ context.Context, pattern string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, elem := range t.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return err
		}
		if matched {
			t.lru.Remove(elem)
			delete(t.entries, key)
		}
	}
	return nil
}

// Len reports the number of live entries, expired or not.
func (t *MemoryTier) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lru.Len()
}
