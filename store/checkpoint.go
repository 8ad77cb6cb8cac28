package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StatusFile is the name of the status record written by file-backed hooks.
const StatusFile = "status.txt"

// EmptyHash marks a checkpoint that has no block hash yet.
const EmptyHash = "0x"

// MaxSafeHeight is the largest height that survives a round trip through
// an IEEE-754 double (2^53 - 1).
const MaxSafeHeight int64 = 1<<53 - 1

var (
	// ErrInvalidCheckpoint is returned when a stored checkpoint cannot be
	// decoded or its height is out of range.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")

	// ErrStorage wraps failures of the underlying storage backend.
	ErrStorage = errors.New("status storage failure")
)

// HashAndHeight is the durable progress marker: the last block whose data
// was committed remotely.
type HashAndHeight struct {
	Height int64  `json:"height"`
	Hash   string `json:"hash"`
}

// Initial is the sentinel checkpoint of a processor that never committed.
func Initial() HashAndHeight {
	return HashAndHeight{Height: -1, Hash: EmptyHash}
}

// IsInitial reports whether c is the never-committed sentinel.
func (c HashAndHeight) IsInitial() bool {
	return c.Height == -1
}

func (c HashAndHeight) String() string {
	return fmt.Sprintf("%d#%s", c.Height, c.Hash)
}

// Validate checks that the height is a safe integer no lower than -1.
func (c HashAndHeight) Validate() error {
	if c.Height < -1 || c.Height > MaxSafeHeight {
		return fmt.Errorf("%w: height %d is not a safe integer", ErrInvalidCheckpoint, c.Height)
	}
	return nil
}

// Hooks reads and writes the checkpoint on some backend.
type Hooks interface {
	// Read returns the stored checkpoint, or nil when nothing is stored.
	Read(ctx context.Context) (*HashAndHeight, error)

	// Update durably replaces the stored checkpoint with next. prev is the
	// checkpoint next was derived from, nil on initialization.
	Update(ctx context.Context, next HashAndHeight, prev *HashAndHeight) error

	// Reset removes the stored checkpoint. Resetting an empty store is not
	// an error.
	Reset(ctx context.Context) error
}

// Encode renders c as two newline separated fields: height, then hash.
func Encode(c HashAndHeight) string {
	return strconv.FormatInt(c.Height, 10) + "\n" + c.Hash
}

// Decode parses the output of Encode. A missing or empty hash decodes as
// EmptyHash.
func Decode(data string) (HashAndHeight, error) {
	heightField, hash, _ := strings.Cut(data, "\n")
	height, err := strconv.ParseInt(strings.TrimSpace(heightField), 10, 64)
	if err != nil {
		return HashAndHeight{}, fmt.Errorf("%w: height %q: %v", ErrInvalidCheckpoint, heightField, err)
	}
	hash = strings.TrimSpace(hash)
	if hash == "" {
		hash = EmptyHash
	}
	c := HashAndHeight{Height: height, Hash: hash}
	if err := c.Validate(); err != nil {
		return HashAndHeight{}, err
	}
	return c, nil
}

// StorageError wraps err so that errors.Is(err, ErrStorage) holds.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
