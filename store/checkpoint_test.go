package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []HashAndHeight{
		{Height: 42, Hash: "0xabc"},
		Initial(),
		{Height: MaxSafeHeight, Hash: "0xff"},
	}
	for _, want := range tests {
		got, err := Decode(Encode(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncode_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42\n0xabc", Encode(HashAndHeight{Height: 42, Hash: "0xabc"}))
	assert.Equal(t, "-1\n0x", Encode(Initial()))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("missing hash becomes empty hash", func(t *testing.T) {
		got, err := Decode("7")
		require.NoError(t, err)
		assert.Equal(t, HashAndHeight{Height: 7, Hash: EmptyHash}, got)
	})

	t.Run("non integer height", func(t *testing.T) {
		_, err := Decode("1.5\n0xabc")
		assert.ErrorIs(t, err, ErrInvalidCheckpoint)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode("")
		assert.ErrorIs(t, err, ErrInvalidCheckpoint)
	})

	t.Run("unsafe height", func(t *testing.T) {
		_, err := Decode("9007199254740992\n0xabc")
		assert.ErrorIs(t, err, ErrInvalidCheckpoint)
	})

	t.Run("below sentinel", func(t *testing.T) {
		_, err := Decode("-2\n0x")
		assert.ErrorIs(t, err, ErrInvalidCheckpoint)
	})
}

func TestHashAndHeight(t *testing.T) {
	t.Parallel()

	assert.True(t, Initial().IsInitial())
	assert.False(t, HashAndHeight{Height: 0, Hash: "0x1"}.IsInitial())
	assert.Equal(t, "12#0xbeef", HashAndHeight{Height: 12, Hash: "0xbeef"}.String())
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := StorageError("write status", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write status")
}
