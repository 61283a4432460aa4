// Package syncx provides synchronization helpers not covered by the
// standard library.
package syncx

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 64

// KeyedMutex serializes operations that share a key while letting
// operations on different keys proceed in parallel. Keys are hashed onto
// a fixed set of striped mutexes, so memory use is constant regardless of
// how many distinct keys are locked over time.
type KeyedMutex struct {
	shards []sync.Mutex
}

// NewKeyedMutex creates a KeyedMutex with the given number of stripes.
// A non-positive count falls back to the default.
func NewKeyedMutex(shards int) *KeyedMutex {
	if shards <= 0 {
		shards = defaultShards
	}
	return &KeyedMutex{shards: make([]sync.Mutex, shards)}
}

// Lock acquires the stripe owning key and returns the matching unlock
// function.
func (m *KeyedMutex) Lock(key string) func() {
	shard := &m.shards[m.index(key)]
	shard.Lock()
	return shard.Unlock
}

func (m *KeyedMutex) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % uint32(len(m.shards))
}
