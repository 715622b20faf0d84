// Package rwmutex provides the readers-writer lock that guards a protected
// cell, and the RWLocker interface a cell accepts in its place.
package rwmutex

import (
	"sync"
	"sync/atomic"
)

// RWMutex is a writer-preferring reader/writer mutual exclusion lock. The
// lock can be held by an arbitrary number of readers or a single writer.
// Once a writer is pending, new readers wait until it has unlocked.
//
// An RWMutex must be created with New and must not be copied after first use.
type RWMutex struct {
	w           sync.Mutex   // held if there are pending writers
	readerCount atomic.Int32 // number of pending readers
	readerWait  atomic.Int32 // number of departing readers
	writerSem   semaphore
	readerSem   semaphore
}

const maxReaders = 1 << 30

// New returns an unlocked RWMutex.
func New() *RWMutex {
	return &RWMutex{
		writerSem: make(semaphore),
		readerSem: make(semaphore),
	}
}

// RLock locks rw for reading. It blocks while a writer holds or waits for
// the lock, so recursive read locking may deadlock.
func (rw *RWMutex) RLock() {
	if rw.readerCount.Add(1) < 0 {
		// A writer is pending, wait for it.
		rw.readerSem.wait()
	}
}

// TryRLock tries to lock rw for reading and reports whether it succeeded.
func (rw *RWMutex) TryRLock() bool {
	for {
		c := rw.readerCount.Load()
		if c < 0 {
			return false
		}
		if rw.readerCount.CompareAndSwap(c, c+1) {
			return true
		}
	}
}

// RUnlock undoes a single RLock call; it does not affect other simultaneous
// readers. It is a run-time error if rw is not locked for reading.
func (rw *RWMutex) RUnlock() {
	if r := rw.readerCount.Add(-1); r < 0 {
		rw.rUnlockSlow(r)
	}
}

func (rw *RWMutex) rUnlockSlow(r int32) {
	if r+1 == 0 || r+1 == -maxReaders {
		panic("rwmutex: RUnlock of unlocked RWMutex")
	}
	// A writer is pending. The last departing reader wakes it.
	if rw.readerWait.Add(-1) == 0 {
		rw.writerSem.signal(1)
	}
}

// Lock locks rw for writing. If the lock is already held for reading or
// writing, Lock blocks until it is available.
func (rw *RWMutex) Lock() {
	// First, resolve competition with other writers.
	rw.w.Lock()
	// Announce to readers there is a pending writer.
	r := rw.readerCount.Add(-maxReaders) + maxReaders
	// Wait for active readers.
	if r != 0 && rw.readerWait.Add(r) != 0 {
		rw.writerSem.wait()
	}
}

// TryLock tries to lock rw for writing and reports whether it succeeded.
func (rw *RWMutex) TryLock() bool {
	if !rw.w.TryLock() {
		return false
	}
	if !rw.readerCount.CompareAndSwap(0, -maxReaders) {
		rw.w.Unlock()
		return false
	}
	return true
}

// Unlock unlocks rw for writing. It is a run-time error if rw is not locked
// for writing on entry to Unlock.
func (rw *RWMutex) Unlock() {
	// Announce to readers there is no active writer.
	r := rw.readerCount.Add(maxReaders)
	if r >= maxReaders {
		panic("rwmutex: Unlock of unlocked RWMutex")
	}
	// Unblock readers that queued up behind the writer.
	rw.readerSem.signal(int(r))
	// Allow other writers to proceed.
	rw.w.Unlock()
}

// RLocker returns a sync.Locker that implements the Lock and Unlock methods
// by calling rw.RLock and rw.RUnlock.
func (rw *RWMutex) RLocker() sync.Locker {
	return (*rlocker)(rw)
}

type rlocker RWMutex

func (r *rlocker) Lock()   { (*RWMutex)(r).RLock() }
func (r *rlocker) Unlock() { (*RWMutex)(r).RUnlock() }
