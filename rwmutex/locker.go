package rwmutex

// RWLocker is the locking behaviour a protected cell needs from its lock. Both
// *RWMutex and *sync.RWMutex implement it.
type RWLocker interface {
	RLock()
	RUnlock()
	// TryRLock reports whether a read lock was acquired without blocking.
	TryRLock() bool

	Lock()
	Unlock()
	// TryLock reports whether the write lock was acquired without blocking.
	TryLock() bool
}
