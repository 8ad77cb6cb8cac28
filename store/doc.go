// Package store defines the durable checkpoint of a processor and the hooks
// that persist it.
//
// A checkpoint is a (height, hash) pair naming the last block whose data was
// committed to the remote database. It is the only state kwilsquid keeps
// between runs, and it only moves forward after a commit fully succeeded.
//
// # Hooks
//
// Every backend implements the same interface:
//
//	type Hooks interface {
//	    Read(ctx context.Context) (*HashAndHeight, error)
//	    Update(ctx context.Context, next HashAndHeight, prev *HashAndHeight) error
//	    Reset(ctx context.Context) error
//	}
//
// Read returns nil (and no error) when nothing was ever stored. Update
// replaces the stored checkpoint in one step so a reader never observes a
// half-written record.
//
// # Available Implementations
//
//   - store/file: status.txt under a dest.Dest (the default)
//   - store/memory: process memory, for tests
//   - store/redis: a single Redis key
//   - store/postgres: one row of a PostgreSQL table
//   - store/sqlite: one row of a SQLite table
//
// The file and Redis backends share the two-line text encoding produced by
// Encode:
//
//	42
//	0x9f2c...
//
// # Errors
//
// Backend failures wrap ErrStorage. A stored record whose height is not an
// integer in [-1, 2^53-1] yields ErrInvalidCheckpoint.
package store
