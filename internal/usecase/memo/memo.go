// Package memo caches the results of pure functions, keyed by a structural
// hash of their input.
package memo

import (
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// DefaultSize is the number of results kept when New is given a non-positive size
const DefaultSize = 64

// hashOptions renders decimals, dates and UUIDs through their String method;
// their fields are unexported and would otherwise hash as empty structs.
// Zero fields are skipped so nil pointers never reach the Stringer.
var hashOptions = &hashstructure.HashOptions{
	UseStringer:     true,
	IgnoreZeroValue: true,
}

// Func is a memoized func(K) V. The wrapped function must be pure.
// Every hit returns the same cached value, so callers must treat results
// holding slices, maps or pointers as read-only, or copy them first.
type Func[K, V any] struct {
	fn   func(K) V
	size int

	mu      sync.Mutex
	entries map[uint64]V
	order   []uint64 // insertion order, oldest first
	hits    uint64
	misses  uint64
}

// Stats are the cache counters of a memoized function
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// New wraps fn in a cache holding at most size results.
// When full, the oldest result is evicted.
func New[K, V any](fn func(K) V, size int) *Func[K, V] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Func[K, V]{
		fn:      fn,
		size:    size,
		entries: make(map[uint64]V, size),
		order:   make([]uint64, 0, size),
	}
}

// Call returns the cached result for in, computing it on a miss.
// Inputs that cannot be hashed are passed through uncached.
func (m *Func[K, V]) Call(in K) V {
	key, err := hashstructure.Hash(in, hashstructure.FormatV2, hashOptions)
	if err != nil {
		return m.fn(in)
	}

	m.mu.Lock()
	if out, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return out
	}
	m.misses++
	m.mu.Unlock()

	// computed outside the lock; concurrent misses on one key may both compute
	out := m.fn(in)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.size {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.entries[key] = out
		m.order = append(m.order, key)
	}
	return out
}

// Reset drops every cached result
func (m *Func[K, V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[uint64]V, m.size)
	m.order = m.order[:0]
}

// Stats returns the cache counters
func (m *Func[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}
