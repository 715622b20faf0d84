package protected

import "github.com/juju/errors"

const (
	// ErrAccessDenied is returned to a user whose identity is no longer
	// registered, because the owner removed it or was closed.
	ErrAccessDenied = errors.ConstError("access denied")

	// ErrWouldBlock is returned by the Try variants when the lock is held in
	// a conflicting mode.
	ErrWouldBlock = errors.ConstError("lock would block")

	// ErrLockCorruption is the panic value raised by any acquisition on a
	// cell whose value was left half-written by a panicking Update.
	ErrLockCorruption = errors.ConstError("lock corrupted by a panic during update")

	// ErrOwnerClosed is the panic value raised when a closed owner is used
	// to access the value.
	ErrOwnerClosed = errors.ConstError("use of closed owner")

	// ErrGuardReleased is the panic value raised when a guard is used after
	// Release.
	ErrGuardReleased = errors.ConstError("use of released guard")
)
