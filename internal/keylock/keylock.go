package keylock

import (
	"fmt"
	"sync"

	"github.com/moby/locker"
)

// Locker serializes work per key on top of a named mutex set.
// Operations on the same key never run concurrently; operations on
// different keys do not block each other.
type Locker[K fmt.Stringer] struct {
	names *locker.Locker
}

// New creates an empty Locker.
func New[K fmt.Stringer]() *Locker[K] {
	return &Locker[K]{names: locker.New()}
}

// Lock blocks until the key is free and returns the function that releases it.
// Calling the returned function more than once is a no-op.
func (l *Locker[K]) Lock(key K) (unlock func()) {
	name := key.String()
	l.names.Lock(name)

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = l.names.Unlock(name)
		})
	}
}

// Do runs fn while holding the key.
func (l *Locker[K]) Do(key K, fn func()) {
	unlock := l.Lock(key)
	defer unlock()
	fn()
}
