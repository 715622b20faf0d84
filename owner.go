package protected

import "sync/atomic"

// Owner manages access to a protected value. It always has access itself and
// decides which users may access the value. There is exactly one Owner per
// value: New is its only constructor and an Owner must not be copied.
type Owner[ID comparable, T any] struct {
	_      noCopy
	cell   *cell[ID, T]
	closed atomic.Bool
}

// New protects value and returns its owner. The registry starts empty.
func New[ID comparable, T any](value T, opts ...Option) *Owner[ID, T] {
	return &Owner[ID, T]{cell: newCell[ID](value, newOptions(opts))}
}

func (o *Owner[ID, T]) checkOpen() {
	if o.closed.Load() {
		panic(ErrOwnerClosed)
	}
}

// CreateUser grants access to the value to a user with the given id. It
// reports false if a user with that id is already registered or the owner
// has been closed. It panics with ErrLockCorruption if the value was
// poisoned.
func (o *Owner[ID, T]) CreateUser(id ID) (*User[ID, T], bool) {
	if o.closed.Load() {
		return nil, false
	}
	gen, ok := o.cell.register(id)
	if !ok {
		return nil, false
	}
	o.cell.acquire()
	return &User[ID, T]{cell: o.cell, id: id, gen: gen}, true
}

// RemoveUser revokes access for the user with the given id. Guards the user
// already holds stay valid until released; every later access is denied.
// On a closed owner RemoveUser is a no-op. It panics with ErrLockCorruption
// if the value was poisoned.
func (o *Owner[ID, T]) RemoveUser(id ID) {
	if o.closed.Load() {
		return
	}
	o.cell.remove(id)
}

// HasUser reports whether a user with the given id is registered. It panics
// with ErrOwnerClosed if o has been closed, and with ErrLockCorruption if the
// value was poisoned.
func (o *Owner[ID, T]) HasUser(id ID) bool {
	o.checkOpen()
	return o.cell.has(id)
}

// Len returns the number of registered users. It panics like HasUser.
func (o *Owner[ID, T]) Len() int {
	o.checkOpen()
	return o.cell.count()
}

// Read locks the value for shared reading, blocking while a writer holds it.
//
// It panics with ErrOwnerClosed if o has been closed, and with
// ErrLockCorruption if the value was poisoned.
func (o *Owner[ID, T]) Read() *ReadGuard[T] {
	o.checkOpen()
	return o.cell.lockRead()
}

// Write locks the value for exclusive writing, blocking while any other
// guard is held.
//
// It panics with ErrOwnerClosed if o has been closed, and with
// ErrLockCorruption if the value was poisoned.
func (o *Owner[ID, T]) Write() *WriteGuard[T] {
	o.checkOpen()
	return o.cell.lockWrite()
}

// TryRead is Read without blocking. It reports false if a writer holds or is
// waiting for the lock. It panics like Read.
func (o *Owner[ID, T]) TryRead() (*ReadGuard[T], bool) {
	o.checkOpen()
	return o.cell.tryLockRead()
}

// TryWrite is Write without blocking. It reports false if any guard is held.
// It panics like Write.
func (o *Owner[ID, T]) TryWrite() (*WriteGuard[T], bool) {
	o.checkOpen()
	return o.cell.tryLockWrite()
}

// View calls fn with the value while holding a read lock. It panics like
// Read.
func (o *Owner[ID, T]) View(fn func(T)) {
	o.cell.view(o.Read(), fn)
}

// Update calls fn with a pointer to the value while holding the write lock.
// If fn panics, the value is poisoned and every later access panics with
// ErrLockCorruption. It panics like Write.
func (o *Owner[ID, T]) Update(fn func(*T)) {
	o.cell.update(o.Write(), fn)
}

// Close revokes every user and gives up the owner's reference to the value.
// Users created from o are denied from then on. Close is idempotent and
// always returns nil.
func (o *Owner[ID, T]) Close() error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}
	o.cell.clear()
	o.cell.releaseRef()
	return nil
}
