// Package counter provides a sharded map of named int64 counters.
//
// Counters are striped over a fixed number of shards selected by an FNV-1a
// hash of the key, so concurrent increments of different names rarely
// contend on the same mutex. The running total is kept in an atomic and can
// be read without locking.
package counter

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount is the number of shards. Must be a power of 2 for fast
	// modulo via bitwise AND.
	ShardCount = 16

	shardMask = ShardCount - 1
)

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Map is a thread-safe set of named counters.
type Map struct {
	shards [ShardCount]*shard
	total  atomic.Int64
}

type shard struct {
	mu     sync.Mutex
	counts map[string]int64
}

// New creates an empty counter map.
func New() *Map {
	m := &Map{}
	for i := range m.shards {
		m.shards[i] = &shard{counts: make(map[string]int64)}
	}
	return m
}

func (m *Map) shard(key string) *shard {
	return m.shards[StringHasher(key)&shardMask]
}

// Add adds delta to the named counter and to the total.
func (m *Map) Add(key string, delta int64) {
	s := m.shard(key)
	s.mu.Lock()
	s.counts[key] += delta
	s.mu.Unlock()
	m.total.Add(delta)
}

// Get returns the value of the named counter (0 if never touched).
func (m *Map) Get(key string) int64 {
	s := m.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Total returns the sum of all counters.
func (m *Map) Total() int64 {
	return m.total.Load()
}

// Snapshot returns a copy of all counters.
func (m *Map) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for _, s := range m.shards {
		s.mu.Lock()
		for k, v := range s.counts {
			out[k] = v
		}
		s.mu.Unlock()
	}
	return out
}

// Keys returns the counter names in sorted order.
func (m *Map) Keys() []string {
	snap := m.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset clears all counters.
func (m *Map) Reset() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.counts = make(map[string]int64)
		s.mu.Unlock()
	}
	m.total.Store(0)
}
