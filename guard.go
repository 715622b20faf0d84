package protected

import "sync/atomic"

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// guard is the release bookkeeping shared by both guard kinds.
type guard struct {
	_        noCopy
	released atomic.Bool
	unlock   func()
}

func (g *guard) release() {
	if g.released.CompareAndSwap(false, true) {
		g.unlock()
	}
}

func (g *guard) check() {
	if g.released.Load() {
		panic(ErrGuardReleased)
	}
}

// ReadGuard is a held shared lock on a protected value. It must be released
// exactly once, usually with a deferred call to Release.
type ReadGuard[T any] struct {
	guard
	value *T
}

// Get returns the protected value. It panics if g was released.
func (g *ReadGuard[T]) Get() T {
	g.check()
	return *g.value
}

// Release gives up the shared lock. Calls after the first are no-ops.
func (g *ReadGuard[T]) Release() {
	g.release()
}

// WriteGuard is a held exclusive lock on a protected value. It must be
// released exactly once, usually with a deferred call to Release.
//
// When Release is deferred directly, as in defer g.Release(), a panic that
// unwinds through the holder is detected: the value is poisoned and every
// later acquisition panics with ErrLockCorruption. Releasing from inside
// another deferred function does not detect the panic.
type WriteGuard[T any] struct {
	guard
	value  *T
	poison func()
}

// Get returns the protected value. It panics if g was released.
func (g *WriteGuard[T]) Get() T {
	g.check()
	return *g.value
}

// Set replaces the protected value. It panics if g was released.
func (g *WriteGuard[T]) Set(v T) {
	g.check()
	*g.value = v
}

// Ptr returns a pointer to the protected value for in-place mutation. The
// pointer must not be retained after Release.
func (g *WriteGuard[T]) Ptr() *T {
	g.check()
	return g.value
}

// Release gives up the exclusive lock. Calls after the first are no-ops.
func (g *WriteGuard[T]) Release() {
	// recover only sees the panic when Release is itself the deferred call.
	if r := recover(); r != nil {
		if !g.released.Load() {
			g.poison()
		}
		g.release()
		panic(r)
	}
	g.release()
}
