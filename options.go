package protected

import (
	"github.com/juju/loggo/v2"

	"github.com/thetarby/protected/rwmutex"
)

var logger = loggo.GetLogger("protected")

type options struct {
	locker rwmutex.RWLocker
	logger loggo.Logger
}

// Option configures the cell created by New.
type Option func(*options)

// WithLocker makes the cell use l instead of a fresh rwmutex.RWMutex. l must
// be unlocked and must not be shared with anything else.
func WithLocker(l rwmutex.RWLocker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// WithLogger sets the logger the cell reports registrations and revocations
// to.
func WithLogger(l loggo.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = rwmutex.New()
	}
	return o
}
