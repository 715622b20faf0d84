package rwmutex

/* Rendezvous semaphore built on an unbuffered channel */

type semaphore chan struct{}

// wait parks the caller until a matching signal.
func (s semaphore) wait() {
	s <- struct{}{}
}

// signal wakes n waiters, blocking until each of them has arrived.
func (s semaphore) signal(n int) {
	for ; n > 0; n-- {
		<-s
	}
}
