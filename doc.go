/*
Package protected shares a mutable value between goroutines under the control
of a single owner.

The Owner returned by New always has access to the value. It registers users
under identities of its choosing, and may revoke them at any time:

	owner := protected.New[uint32](42)
	defer owner.Close()

	user, ok := owner.CreateUser(0)
	if !ok {
		// 0 is already registered.
	}
	defer user.Close()

	g, err := user.Write()
	if err != nil {
		// errors.Is(err, protected.ErrAccessDenied): the owner revoked
		// user 0, or was closed.
		return err
	}
	defer g.Release()
	g.Set(43)

Every access goes through one readers-writer lock: any number of ReadGuards
or a single WriteGuard are held at a time. Guards must be released, usually by
deferring Release, or by using the View and Update helpers which release on
every exit path.

Closing the owner revokes every user. Closing a user removes its own
registration only, after which its identity may be registered again.
Revocation never invalidates a guard that is already held.

A panic that unwinds through a write lock holder, either inside an Update
callback or past a deferred WriteGuard.Release, leaves the value in an unknown
state. The value is then poisoned and every later acquisition panics with
ErrLockCorruption.
*/
package protected
