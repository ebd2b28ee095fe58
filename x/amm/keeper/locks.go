package keeper

import (
	"sync"
)

// poolLocks hands out one mutex per pool so that operations on the same pool
// are serialized, and one per signer so that a signer's sequence is checked
// and consumed by one message at a time. Committing a cached context back into the parent store is
// additionally guarded by store, since custody accounts are shared between
// pools and the underlying multistore does not support concurrent writers.
type poolLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	store sync.Mutex
}

func newPoolLocks() *poolLocks {
	return &poolLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for pool and returns its release function.
func (l *poolLocks) lock(pool string) func() {
	l.mu.Lock()
	m, ok := l.locks[pool]
	if !ok {
		m = &sync.Mutex{}
		l.locks[pool] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// lockSigner acquires the mutex for signer and returns its release function.
// Signer mutexes live in their own key space next to the pool mutexes.
func (l *poolLocks) lockSigner(signer string) func() {
	return l.lock("signer/" + signer)
}

// lockStore acquires the store mutex and returns its release function.
func (l *poolLocks) lockStore() func() {
	l.store.Lock()
	return l.store.Unlock
}
