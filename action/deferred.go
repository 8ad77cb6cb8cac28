package action

import (
	"context"
	"fmt"
	"sync"
)

// Deferred is a value that is either known up front or computed on first
// use. A successful resolution is cached for the lifetime of the Deferred;
// a failed one is retried on the next call.
type Deferred[T any] struct {
	mu       sync.Mutex
	resolved bool
	value    T
	fn       func(context.Context) (T, error)
}

// Value returns an already resolved Deferred.
func Value[T any](v T) *Deferred[T] {
	return &Deferred[T]{resolved: true, value: v}
}

// Lazy returns a Deferred computed by fn on first Resolve.
func Lazy[T any](fn func(context.Context) (T, error)) *Deferred[T] {
	return &Deferred[T]{fn: fn}
}

// Resolve returns the value, computing it if needed.
func (d *Deferred[T]) Resolve(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.resolved {
		return d.value, nil
	}
	var zero T
	if d.fn == nil {
		return zero, fmt.Errorf("deferred value has no resolver")
	}
	v, err := d.fn(ctx)
	if err != nil {
		return zero, err
	}
	d.value = v
	d.resolved = true
	d.fn = nil
	return v, nil
}

// Resolved reports whether the value is cached.
func (d *Deferred[T]) Resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolved
}
