package service

import "sync"

// pairLocks hands out one mutex per unordered pair of user ids.  Entries
// are reference counted and removed when the last holder unlocks.
type pairLocks struct {
	mu    sync.Mutex
	locks map[[2]uint64]*pairLock
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[[2]uint64]*pairLock)}
}

func pairKey(a, b uint64) [2]uint64 {
	if a > b {
		a, b = b, a
	}
	return [2]uint64{a, b}
}

// lock blocks until the pair {a,b} is free and returns its unlock func.
func (p *pairLocks) lock(a, b uint64) func() {
	key := pairKey(a, b)
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &pairLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}

func (p *pairLocks) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
