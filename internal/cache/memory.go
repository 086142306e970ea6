package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is an in-process Store with LRU eviction, per-entry TTL and a
// tag index for bulk invalidation.
type MemoryStore struct {
	entries     map[string]*memoryEntry
	tags        map[string]map[string]struct{} // tag -> set of keys
	mutex       sync.Mutex
	maxSize     int64
	currentSize int64
	// LRU doubly-linked list with dummy head and tail
	head *memoryEntry
	tail *memoryEntry
	// Statistics tracking (atomic for thread safety)
	hits      int64
	misses    int64
	evictions int64
}

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	key       string
	value     []byte
	tags      []string
	expiresAt time.Time // zero means no expiry
	size      int64
	prev      *memoryEntry
	next      *memoryEntry
}

// NewMemoryStore creates a memory store bounded to maxSize bytes of values.
func NewMemoryStore(maxSize int64) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		maxSize: maxSize,
	}
	s.head = &memoryEntry{}
	s.tail = &memoryEntry{}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get retrieves a value, refreshing its LRU position.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}
	if entry.expired() {
		s.drop(entry)
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}

	s.moveToFront(entry)
	atomic.AddInt64(&s.hits, 1)
	return entry.value, true
}

// Set stores a value, evicting least recently used entries when the store
// would exceed its size bound.
func (s *MemoryStore) Set(key string, value []byte, tags []string, ttl time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, exists := s.entries[key]; exists {
		s.drop(existing)
	}
	s.evictIfNeeded(int64(len(value)))

	entry := &memoryEntry{
		key:   key,
		value: value,
		tags:  tags,
		size:  int64(len(value)),
	}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.entries[key] = entry
	s.currentSize += entry.size
	s.addToFront(entry)
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Has reports whether a live entry exists without touching LRU order.
func (s *MemoryStore) Has(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return false
	}
	if entry.expired() {
		s.drop(entry)
		return false
	}
	return true
}

// Flush removes all entries and resets statistics.
func (s *MemoryStore) Flush() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = make(map[string]*memoryEntry)
	s.tags = make(map[string]map[string]struct{})
	s.currentSize = 0
	s.head.next = s.tail
	s.tail.prev = s.head
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
}

// FlushByTag removes every entry carrying the tag.
func (s *MemoryStore) FlushByTag(tag string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.tags[tag] {
		if entry, exists := s.entries[key]; exists {
			s.drop(entry)
		}
	}
	delete(s.tags, tag)
}

// Stats returns entry count, current size and hit/miss counters.
func (s *MemoryStore) Stats() (count int, size int64, hits int64, misses int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.entries), s.currentSize, atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

func (e *memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// drop removes an entry from the map, the LRU list and the tag index.
// Callers must hold the lock.
func (s *MemoryStore) drop(entry *memoryEntry) {
	s.removeFromList(entry)
	delete(s.entries, entry.key)
	s.currentSize -= entry.size
	for _, tag := range entry.tags {
		if keys, ok := s.tags[tag]; ok {
			delete(keys, entry.key)
			if len(keys) == 0 {
				delete(s.tags, tag)
			}
		}
	}
}

func (s *MemoryStore) evictIfNeeded(newSize int64) {
	for s.currentSize+newSize > s.maxSize && s.tail.prev != s.head {
		s.drop(s.tail.prev)
		atomic.AddInt64(&s.evictions, 1)
	}
}

// LRU doubly-linked list operations
func (s *MemoryStore) addToFront(entry *memoryEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *MemoryStore) removeFromList(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (s *MemoryStore) moveToFront(entry *memoryEntry) {
	s.removeFromList(entry)
	s.addToFront(entry)
}
