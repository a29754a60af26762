// Package store holds process-wide state that is changed optimistically and
// rolled back when the matching remote operation fails.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ApplyFunc derives the optimistic state from the current one. It must return
// a new value and leave its argument untouched: the argument is the rollback
// snapshot.
type ApplyFunc[S any] func(current S) (S, error)

// EffectFunc performs the remote side of a mutation. On success it may return
// a confirm function that rewrites the state with the remote result.
type EffectFunc[S any] func(ctx context.Context) (confirm func(S) S, err error)

// Option configures a Store.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout bounds every effect and fetch run by the store. Zero means no
// bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Store is a state cell with optimistic mutations and subscriptions.
//
// Mutations and loads of one store run one at a time, so a rollback never
// overwrites a write that was confirmed while it was in flight. Reads do not
// wait for them.
type Store[S any] struct {
	mu    sync.Mutex
	state S

	ops     sync.Mutex
	timeout time.Duration

	subsMu sync.Mutex
	subs   map[uint64]func(S)
	nextID uint64
}

// New creates a Store holding initial.
func New[S any](initial S, opts ...Option) *Store[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[S]{
		state:   initial,
		timeout: o.timeout,
		subs:    make(map[uint64]func(S)),
	}
}

// Get returns the current state.
func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Load replaces the state wholesale with the result of fetch. A failed fetch
// leaves the state as it was.
func (s *Store[S]) Load(ctx context.Context, fetch func(ctx context.Context) (S, error)) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	next, err := fetch(ctx)
	if err != nil {
		return err
	}
	s.set(next)
	return nil
}

// Mutate applies a change locally, runs the remote effect and either confirms
// or restores the pre-call snapshot. An apply error aborts before the effect
// runs and leaves the state untouched.
func (s *Store[S]) Mutate(ctx context.Context, apply ApplyFunc[S], effect EffectFunc[S]) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	snapshot := s.state
	next, err := apply(snapshot)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.mu.Unlock()
	s.publish(next)

	ctx, cancel := s.bound(ctx)
	defer cancel()

	confirm, err := effect(ctx)
	if err != nil {
		s.set(snapshot)
		return &RollbackError{Err: err}
	}

	if confirm != nil {
		s.update(confirm)
	}
	return nil
}

func (s *Store[S]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store[S]) set(next S) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.publish(next)
}

func (s *Store[S]) update(fn func(S) S) {
	s.mu.Lock()
	next := fn(s.state)
	s.state = next
	s.mu.Unlock()
	s.publish(next)
}

func (s *Store[S]) publish(state S) {
	s.subsMu.Lock()
	subs := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// RollbackError reports a remote failure after which the local state was
// restored.
type RollbackError struct {
	Err error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rolled back: %v", e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}
