package store

import "sync"

// numShards spreads per-application locks so unrelated applications do not
// contend on one mutex.
const numShards = 128

type shardedLock struct {
	shards [numShards]sync.Mutex
}

// lock acquires the shard owning key and returns its unlock func.
func (l *shardedLock) lock(key string) func() {
	m := &l.shards[hashKey(key)%numShards]
	m.Lock()
	return m.Unlock
}

// hashKey is FNV-1a.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
