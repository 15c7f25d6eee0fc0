package service

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsUnordered(t *testing.T) {
	assert.Equal(t, pairKey(3, 9), pairKey(9, 3))
	assert.NotEqual(t, pairKey(3, 9), pairKey(3, 8))
}

func TestPairLocks_SerializesSamePair(t *testing.T) {
	locks := newPairLocks()
	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint64(1), uint64(2)
			if i%2 == 0 {
				a, b = b, a
			}
			unlock := locks.lock(a, b)
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			inside.Add(-1)
			unlock()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, locks.size())
}

func TestPairLocks_IndependentPairs(t *testing.T) {
	locks := newPairLocks()
	unlockA := locks.lock(1, 2)
	// a different pair must not block
	unlockB := locks.lock(1, 3)
	assert.Equal(t, 2, locks.size())
	unlockB()
	unlockA()
	assert.Zero(t, locks.size())
}
