package prioritylock

import (
	"sync"
)

// Registry hands out one Mutex per key. Mutexes are created on first
// use and are never removed.
type Registry[K comparable] struct {
	mutexes map[K]*Mutex
	lock    sync.Mutex
}

// NewRegistry returns an empty Registry
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{
		mutexes: make(map[K]*Mutex),
	}
}

// Mutex returns the Mutex of the given key
func (r *Registry[K]) Mutex(key K) *Mutex {
	r.lock.Lock()
	defer r.lock.Unlock()

	mutex, ok := r.mutexes[key]
	if !ok {
		mutex = New()
		r.mutexes[key] = mutex
	}
	return mutex
}

// Len returns the number of keys that have a Mutex
func (r *Registry[K]) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.mutexes)
}
