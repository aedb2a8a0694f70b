package prioritylock

import (
	"sync"
)

// Mutex implements a lock with three priorities:
//   - High priority write lock: locks the mutex with the highest priority.
//   - High priority read lock: locks the mutex with lower priority than
//     the high priority write lock. Can be held concurrently with other
//     read locks.
//   - Low priority write lock: waits until no high priority lock is held
//     or requested.
type Mutex struct {
	dataMutex           sync.RWMutex
	lowPriorityMutex    sync.Mutex
	highPriorityWaiting *waitGroup
}

// New returns a new unlocked Mutex
func New() *Mutex {
	return &Mutex{
		highPriorityWaiting: newWaitGroup(),
	}
}

// LowPriorityLock acquires a low priority write lock. It waits until
// both other low priority holders and all high priority holders release
// the mutex.
func (mtx *Mutex) LowPriorityLock() {
	mtx.lowPriorityMutex.Lock()
	mtx.highPriorityWaiting.wait()
	mtx.dataMutex.Lock()
}

// LowPriorityUnlock releases a low priority write lock
func (mtx *Mutex) LowPriorityUnlock() {
	mtx.dataMutex.Unlock()
	mtx.lowPriorityMutex.Unlock()
}

// HighPriorityLock acquires a high priority write lock. It still waits
// for a low priority holder that already acquired the mutex.
func (mtx *Mutex) HighPriorityLock() {
	mtx.highPriorityWaiting.add()
	mtx.dataMutex.Lock()
}

// HighPriorityUnlock releases a high priority write lock
func (mtx *Mutex) HighPriorityUnlock() {
	mtx.dataMutex.Unlock()
	mtx.highPriorityWaiting.done()
}

// HighPriorityReadLock acquires a high priority read lock
func (mtx *Mutex) HighPriorityReadLock() {
	mtx.highPriorityWaiting.add()
	mtx.dataMutex.RLock()
}

// HighPriorityReadUnlock releases a high priority read lock
func (mtx *Mutex) HighPriorityReadUnlock() {
	mtx.dataMutex.RUnlock()
	mtx.highPriorityWaiting.done()
}
