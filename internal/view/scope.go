// Package view binds outstanding work to the lifetime of the page that
// started it. Results that arrive after the page is gone are dropped; the
// underlying request is not cancelled, only ignored.
package view

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a scope closes before its work finishes.
var ErrClosed = errors.New("view closed")

// Scope represents one live page or request.
type Scope struct {
	parent context.Context
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// NewScope opens a scope that closes on Close or when parent is done.
func NewScope(parent context.Context) *Scope {
	s := &Scope{
		parent: parent,
		done:   make(chan struct{}),
	}

	go func() {
		select {
		case <-parent.Done():
			s.Close()
		case <-s.done:
		}
	}()

	return s
}

// Close tears the scope down. Safe to call more than once.
func (s *Scope) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
	})
}

// Closed reports whether the scope has been torn down.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Done is closed once the scope is torn down.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

// Run calls fn only while the scope is open. It reports whether fn ran.
// Close blocks until a running fn returns.
func (s *Scope) Run(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	fn()

	return true
}

type result[T any] struct {
	value T
	err   error
}

// Load runs fetch and waits for it, unless the scope closes first, in which
// case it returns ErrClosed and the eventual result is discarded.
func Load[T any](s *Scope, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if s.Closed() {
		return zero, ErrClosed
	}

	ch := make(chan result[T], 1)

	go func() {
		v, err := fetch(context.WithoutCancel(s.parent))
		ch <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-ch:
		if s.Closed() {
			return zero, ErrClosed
		}

		return r.value, r.err
	case <-s.done:
		return zero, ErrClosed
	}
}
