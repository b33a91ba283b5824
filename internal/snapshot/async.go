package snapshot

import (
	"slices"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

// Operation is the handle of an operation running on its own goroutine.
// There is no cancellation: once started it runs to completion.
type Operation[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Start runs fn on a new goroutine. A panic in fn is returned as an error
// from Wait.
func Start[T any](fn func() (T, error)) *Operation[T] {
	op := &Operation[T]{done: make(chan struct{})}
	go func() {
		defer close(op.done)
		defer func() {
			if r := recover(); r != nil {
				op.err = errors.Newf("operation panicked: %v", r)
			}
		}()
		op.value, op.err = fn()
	}()
	return op
}

// Done is closed when the operation finishes.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation finishes and returns its outcome.
func (o *Operation[T]) Wait() (T, error) {
	<-o.done
	return o.value, o.err
}

// CreateAsync runs Create on its own goroutine.
func (m *Manager) CreateAsync(req CreateRequest, progress ProgressFunc) *Operation[*CreateResult] {
	req.Excludes = slices.Clone(req.Excludes)
	return Start(func() (*CreateResult, error) {
		return m.Create(req, progress)
	})
}

// RestoreAsync runs Restore on its own goroutine.
func (m *Manager) RestoreAsync(req RestoreRequest, progress ProgressFunc) *Operation[*RestoreResult] {
	return Start(func() (*RestoreResult, error) {
		return m.Restore(req, progress)
	})
}

// DeleteAsync runs Delete on its own goroutine.
func (m *Manager) DeleteAsync(id string) *Operation[struct{}] {
	return Start(func() (struct{}, error) {
		return struct{}{}, m.Delete(id)
	})
}
