package service

import (
	"time"

	"github.com/dtroode/portfolio-server/internal/store"
)

// Option configures an entity service.
type Option func(*options)

type options struct {
	remoteTimeout time.Duration
}

// WithRemoteTimeout bounds each remote fetch and mutation effect. A call that
// hangs past d fails and its optimistic change is rolled back.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.remoteTimeout = d
	}
}

func newState[S any](initial S, opts []Option) *store.Store[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return store.New(initial, store.WithTimeout(o.remoteTimeout))
}
