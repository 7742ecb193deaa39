// Package lock provides an in-process advisory mutex keyed by operation
// identifier. A second acquire on a held key is rejected rather than queued,
// and a holder that never releases is reclaimed after the TTL.
package lock

import (
	"sync"
	"time"
)

type holder struct {
	token      uint64
	acquiredAt time.Time
}

type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]holder
	ttl  time.Duration
	next uint64
}

func NewKeyedMutex(ttl time.Duration) *KeyedMutex {
	return &KeyedMutex{
		held: make(map[string]holder),
		ttl:  ttl,
	}
}

// TryAcquire claims the key if it is free or its previous holder expired.
// It never blocks. The returned token identifies this acquisition and must
// be passed back to Release.
func (k *KeyedMutex) TryAcquire(key string) (uint64, bool) {
	now := time.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	if h, ok := k.held[key]; ok && now.Sub(h.acquiredAt) < k.ttl {
		return 0, false
	}

	k.next++
	k.held[key] = holder{token: k.next, acquiredAt: now}
	return k.next, true
}

// Release frees the key only while token still identifies the current
// holder. A stale holder releasing after TTL reclaim is a no-op, so it
// cannot evict the successor.
func (k *KeyedMutex) Release(key string, token uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if h, ok := k.held[key]; ok && h.token == token {
		delete(k.held, key)
	}
}
