package protected

import (
	"sync/atomic"

	"github.com/juju/errors"
)

// User accesses a protected value for as long as its owner allows it.
//
// Access is checked and the lock taken in two separate steps, so a call that
// races with RemoveUser may still be granted a guard. Once the revocation is
// visible every later call is denied.
type User[ID comparable, T any] struct {
	_      noCopy
	cell   *cell[ID, T]
	id     ID
	gen    uint64
	closed atomic.Bool
}

// ID returns the identity u was registered with.
func (u *User[ID, T]) ID() ID {
	return u.id
}

// HasAccess reports whether u is still registered.
func (u *User[ID, T]) HasAccess() bool {
	return u.cell.contains(u.id, u.gen)
}

func (u *User[ID, T]) denied() error {
	u.cell.logger.Tracef("access denied for user %v", u.id)
	return errors.Annotatef(ErrAccessDenied, "user %v", u.id)
}

func (u *User[ID, T]) authorize() error {
	if !u.cell.contains(u.id, u.gen) {
		return u.denied()
	}
	testHookAccessChecked()
	return nil
}

func (u *User[ID, T]) tryAuthorize() error {
	found, ok := u.cell.tryContains(u.id, u.gen)
	switch {
	case !ok:
		return errors.Trace(ErrWouldBlock)
	case !found:
		return u.denied()
	}
	return nil
}

// Read locks the value for shared reading.
//
// It returns ErrAccessDenied if the owner has been closed or has revoked u.
// It panics with ErrLockCorruption if the value was poisoned.
func (u *User[ID, T]) Read() (*ReadGuard[T], error) {
	if err := u.authorize(); err != nil {
		return nil, err
	}
	return u.cell.lockRead(), nil
}

// Write locks the value for exclusive writing.
//
// It returns ErrAccessDenied if the owner has been closed or has revoked u.
// It panics with ErrLockCorruption if the value was poisoned.
func (u *User[ID, T]) Write() (*WriteGuard[T], error) {
	if err := u.authorize(); err != nil {
		return nil, err
	}
	return u.cell.lockWrite(), nil
}

// TryRead is Read without blocking. It returns ErrWouldBlock if the lock is
// held by a writer.
func (u *User[ID, T]) TryRead() (*ReadGuard[T], error) {
	if err := u.tryAuthorize(); err != nil {
		return nil, err
	}
	g, ok := u.cell.tryLockRead()
	if !ok {
		return nil, errors.Trace(ErrWouldBlock)
	}
	return g, nil
}

// TryWrite is Write without blocking. It returns ErrWouldBlock if any guard
// is held.
func (u *User[ID, T]) TryWrite() (*WriteGuard[T], error) {
	if err := u.tryAuthorize(); err != nil {
		return nil, err
	}
	g, ok := u.cell.tryLockWrite()
	if !ok {
		return nil, errors.Trace(ErrWouldBlock)
	}
	return g, nil
}

// View calls fn with the value while holding a read lock.
func (u *User[ID, T]) View(fn func(T)) error {
	g, err := u.Read()
	if err != nil {
		return err
	}
	u.cell.view(g, fn)
	return nil
}

// Update calls fn with a pointer to the value while holding the write lock.
// If fn panics, the value is poisoned for every handle.
func (u *User[ID, T]) Update(fn func(*T)) error {
	g, err := u.Write()
	if err != nil {
		return err
	}
	u.cell.update(g, fn)
	return nil
}

// Close gives up u's own registration and its reference to the value. It
// never affects other users, including a later user registered with the
// same id. Close is idempotent and always returns nil.
func (u *User[ID, T]) Close() error {
	if !u.closed.CompareAndSwap(false, true) {
		return nil
	}
	u.cell.deregister(u.id, u.gen)
	u.cell.releaseRef()
	return nil
}
