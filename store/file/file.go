// Package file stores the checkpoint as a two-line status file through a
// dest.Dest. It is the default backend.
package file

import (
	"context"

	"github.com/smallnest/kwilsquid/dest"
	"github.com/smallnest/kwilsquid/store"
)

// Hooks keeps the checkpoint in a single status file.
type Hooks struct {
	dest dest.Dest
	name string
}

var _ store.Hooks = (*Hooks)(nil)

// New returns hooks writing store.StatusFile under d.
func New(d dest.Dest) *Hooks {
	return NewWithName(d, store.StatusFile)
}

// NewWithName returns hooks writing the named file under d.
func NewWithName(d dest.Dest, name string) *Hooks {
	if name == "" {
		name = store.StatusFile
	}
	return &Hooks{dest: d, name: name}
}

// Read returns nil when the status file does not exist.
func (h *Hooks) Read(ctx context.Context) (*store.HashAndHeight, error) {
	exists, err := h.dest.Exists(ctx, h.name)
	if err != nil {
		return nil, store.StorageError("stat status file", err)
	}
	if !exists {
		return nil, nil
	}

	data, err := h.dest.ReadFile(ctx, h.name)
	if err != nil {
		return nil, store.StorageError("read status file", err)
	}

	state, err := store.Decode(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Update writes a temporary file and renames it over the status file, so
// readers see either the old record or the new one.
func (h *Hooks) Update(ctx context.Context, next store.HashAndHeight, _ *store.HashAndHeight) error {
	tmp := h.name + ".tmp"
	if err := h.dest.WriteFile(ctx, tmp, store.Encode(next)); err != nil {
		return store.StorageError("write status file", err)
	}
	if err := h.dest.Rename(ctx, tmp, h.name); err != nil {
		return store.StorageError("replace status file", err)
	}
	return nil
}

// Reset deletes the status file.
func (h *Hooks) Reset(ctx context.Context) error {
	if err := h.dest.Remove(ctx, h.name); err != nil {
		return store.StorageError("remove status file", err)
	}
	return nil
}
