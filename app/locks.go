package app

import (
	"sync"

	"sproutlens/domain/core"
)

// focusLocks serializes writes per hypothesis (child + focus). Hypotheses for
// different children or foci are independent and proceed concurrently; a
// global lock would throttle them for no reason.
type focusLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newFocusLocks() *focusLocks {
	return &focusLocks{locks: make(map[string]*sync.Mutex)}
}

func (f *focusLocks) get(childID core.ChildID, focus string) *sync.Mutex {
	key := childID.String() + "/" + focus
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	f.locks[key] = l
	return l
}
