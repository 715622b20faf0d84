package protected

import (
	"sync/atomic"

	"github.com/juju/loggo/v2"

	"github.com/thetarby/protected/rwmutex"
)

// testHookAccessChecked runs after a user passed its access check and before
// it locks the value.
var testHookAccessChecked = func() {}

// cell is the value and its access registry, both guarded by one lock and
// shared by the owner and every user created from it.
type cell[ID comparable, T any] struct {
	lock   rwmutex.RWLocker
	logger loggo.Logger

	// refs counts the open handles. The value is dropped when it reaches 0.
	refs atomic.Int64
	// poisoned is set when a panic unwound through a holder of the write
	// lock. It is never cleared.
	poisoned atomic.Bool

	// Guarded by lock.
	value     T
	registry  map[ID]uint64 // identity -> registration generation
	gen       uint64
	ownerGone bool
}

func newCell[ID comparable, T any](value T, o options) *cell[ID, T] {
	c := &cell[ID, T]{
		lock:     o.locker,
		logger:   o.logger,
		value:    value,
		registry: make(map[ID]uint64),
	}
	c.refs.Store(1)
	return c
}

func (c *cell[ID, T]) checkPoisoned(unlock func()) {
	if c.poisoned.Load() {
		unlock()
		panic(ErrLockCorruption)
	}
}

func (c *cell[ID, T]) rlock() {
	c.lock.RLock()
	c.checkPoisoned(c.lock.RUnlock)
}

func (c *cell[ID, T]) wlock() {
	c.lock.Lock()
	c.checkPoisoned(c.lock.Unlock)
}

func (c *cell[ID, T]) readGuard() *ReadGuard[T] {
	return &ReadGuard[T]{guard: guard{unlock: c.lock.RUnlock}, value: &c.value}
}

func (c *cell[ID, T]) writeGuard() *WriteGuard[T] {
	return &WriteGuard[T]{guard: guard{unlock: c.lock.Unlock}, value: &c.value, poison: c.poison}
}

// poison marks the value as corrupted. The caller must hold the write lock.
func (c *cell[ID, T]) poison() {
	c.poisoned.Store(true)
	c.logger.Criticalf("write lock holder did not complete, value is poisoned")
}

func (c *cell[ID, T]) lockRead() *ReadGuard[T] {
	c.rlock()
	return c.readGuard()
}

func (c *cell[ID, T]) lockWrite() *WriteGuard[T] {
	c.wlock()
	return c.writeGuard()
}

func (c *cell[ID, T]) tryLockRead() (*ReadGuard[T], bool) {
	if !c.lock.TryRLock() {
		return nil, false
	}
	c.checkPoisoned(c.lock.RUnlock)
	return c.readGuard(), true
}

func (c *cell[ID, T]) tryLockWrite() (*WriteGuard[T], bool) {
	if !c.lock.TryLock() {
		return nil, false
	}
	c.checkPoisoned(c.lock.Unlock)
	return c.writeGuard(), true
}

// view calls fn with the value and releases g on every exit path.
func (c *cell[ID, T]) view(g *ReadGuard[T], fn func(T)) {
	defer g.Release()
	fn(*g.value)
}

// update calls fn with a pointer to the value and releases g on every exit
// path. If fn does not return normally the cell is poisoned.
func (c *cell[ID, T]) update(g *WriteGuard[T], fn func(*T)) {
	done := false
	defer func() {
		if !done {
			c.poison()
		}
		g.Release()
	}()
	fn(g.value)
	done = true
}

// register adds id with a fresh generation. It reports false, leaving the
// registry untouched, if id is already present or the owner is gone.
func (c *cell[ID, T]) register(id ID) (uint64, bool) {
	c.wlock()
	defer c.lock.Unlock()
	if c.ownerGone {
		return 0, false
	}
	if _, ok := c.registry[id]; ok {
		return 0, false
	}
	c.gen++
	c.registry[id] = c.gen
	c.logger.Debugf("registered user %v (generation %d)", id, c.gen)
	return c.gen, true
}

// remove revokes id whichever registration holds it.
func (c *cell[ID, T]) remove(id ID) {
	c.wlock()
	defer c.lock.Unlock()
	if _, ok := c.registry[id]; ok {
		delete(c.registry, id)
		c.logger.Debugf("revoked user %v", id)
	}
}

// deregister removes id only if it is still held by registration gen. It
// does not check for poisoning so that closing a handle never panics.
func (c *cell[ID, T]) deregister(id ID, gen uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if g, ok := c.registry[id]; ok && g == gen {
		delete(c.registry, id)
		c.logger.Debugf("user %v deregistered", id)
	}
}

// clear revokes every user and refuses further registrations.
func (c *cell[ID, T]) clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := len(c.registry)
	clear(c.registry)
	c.ownerGone = true
	c.logger.Debugf("owner closed, revoked %d users", n)
}

// contains reports whether id is registered under generation gen.
func (c *cell[ID, T]) contains(id ID, gen uint64) bool {
	c.rlock()
	defer c.lock.RUnlock()
	g, ok := c.registry[id]
	return ok && g == gen
}

// tryContains is contains without blocking. ok is false if the registry
// could not be locked.
func (c *cell[ID, T]) tryContains(id ID, gen uint64) (found, ok bool) {
	if !c.lock.TryRLock() {
		return false, false
	}
	c.checkPoisoned(c.lock.RUnlock)
	defer c.lock.RUnlock()
	g, present := c.registry[id]
	return present && g == gen, true
}

func (c *cell[ID, T]) has(id ID) bool {
	c.rlock()
	defer c.lock.RUnlock()
	_, ok := c.registry[id]
	return ok
}

func (c *cell[ID, T]) count() int {
	c.rlock()
	defer c.lock.RUnlock()
	return len(c.registry)
}

func (c *cell[ID, T]) acquire() {
	c.refs.Add(1)
}

// releaseRef drops one handle reference. The last one zeroes the value so it
// can be collected even while stale handles are still reachable.
func (c *cell[ID, T]) releaseRef() {
	if c.refs.Add(-1) != 0 {
		return
	}
	c.lock.Lock()
	var zero T
	c.value = zero
	c.lock.Unlock()
	c.logger.Debugf("last handle closed, value released")
}
