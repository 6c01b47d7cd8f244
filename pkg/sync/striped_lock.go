package sync

import (
	"sort"
	base "sync"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a key
// space to a set of locks. This provides concurrent data access while also
// limiting the total memory footprint.
type StripedLock struct {
	locks    []base.RWMutex
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		locks:    make([]base.RWMutex, stripes),
		hashRing: newRing(int(stripes), hashEntriesPerLock),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.stripe(key)]
}

func (l *StripedLock) stripe(key []byte) int {
	return l.hashRing.stripe(key)
}

// LockAll acquires the write lock for every key in writable and the read lock
// for every key in readonly, returning a function that releases them.
//
// Stripes are acquired in ascending index order, so concurrent callers with
// overlapping key sets cannot deadlock. A stripe shared by a writable and a
// readonly key is write locked.
func (l *StripedLock) LockAll(writable, readonly [][]byte) (unlock func()) {
	modes := make(map[int]bool)
	for _, key := range readonly {
		modes[l.stripe(key)] = false
	}
	for _, key := range writable {
		modes[l.stripe(key)] = true
	}

	stripes := make([]int, 0, len(modes))
	for stripe := range modes {
		stripes = append(stripes, stripe)
	}
	sort.Ints(stripes)

	for _, stripe := range stripes {
		if modes[stripe] {
			l.locks[stripe].Lock()
		} else {
			l.locks[stripe].RLock()
		}
	}

	return func() {
		for i := len(stripes) - 1; i >= 0; i-- {
			stripe := stripes[i]
			if modes[stripe] {
				l.locks[stripe].Unlock()
			} else {
				l.locks[stripe].RUnlock()
			}
		}
	}
}
