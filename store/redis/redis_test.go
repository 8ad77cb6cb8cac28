package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/smallnest/kwilsquid/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	h := New(Options{Addr: mr.Addr()})
	defer h.Close()

	ctx := context.Background()

	// Absent
	state, err := h.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, state)

	// Update
	want := store.HashAndHeight{Height: 42, Hash: "0xabc"}
	assert.NoError(t, h.Update(ctx, want, nil))

	raw, err := mr.Get("kwilsquid:status")
	assert.NoError(t, err)
	assert.Equal(t, "42\n0xabc", raw)

	// Read
	state, err = h.Read(ctx)
	assert.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, want, *state)

	// Reset
	assert.NoError(t, h.Reset(ctx))
	state, err = h.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, state)
}

func TestHooks_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	h := New(Options{Addr: mr.Addr(), Prefix: "bayc:"})
	defer h.Close()

	assert.Equal(t, "bayc:status", h.Key())
	require.NoError(t, h.Update(context.Background(), store.Initial(), nil))
	assert.True(t, mr.Exists("bayc:status"))
}

func TestHooks_InvalidRecord(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set("kwilsquid:status", "abc\n0x1"))

	h := New(Options{Addr: mr.Addr()})
	defer h.Close()

	_, err = h.Read(context.Background())
	assert.ErrorIs(t, err, store.ErrInvalidCheckpoint)
}

func TestHooks_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	h := New(Options{Addr: addr})
	defer h.Close()

	_, err = h.Read(context.Background())
	assert.ErrorIs(t, err, store.ErrStorage)
}
