// Package memory keeps the checkpoint in process memory. Nothing survives a
// restart; it exists for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/smallnest/kwilsquid/store"
)

// Hooks is a mutex guarded in-memory checkpoint.
type Hooks struct {
	mu      sync.RWMutex
	state   *store.HashAndHeight
	history []store.HashAndHeight
}

var _ store.Hooks = (*Hooks)(nil)

// New returns empty hooks.
func New() *Hooks {
	return &Hooks{}
}

func (h *Hooks) Read(ctx context.Context) (*store.HashAndHeight, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.StorageError("read status", err)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == nil {
		return nil, nil
	}
	state := *h.state
	return &state, nil
}

func (h *Hooks) Update(ctx context.Context, next store.HashAndHeight, _ *store.HashAndHeight) error {
	if err := ctx.Err(); err != nil {
		return store.StorageError("write status", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = &next
	h.history = append(h.history, next)
	return nil
}

func (h *Hooks) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return store.StorageError("reset status", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = nil
	return nil
}

// History returns every checkpoint written so far, oldest first.
func (h *Hooks) History() []store.HashAndHeight {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]store.HashAndHeight(nil), h.history...)
}
