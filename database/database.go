package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/kwilsquid/action"
	"github.com/smallnest/kwilsquid/dest"
	"github.com/smallnest/kwilsquid/log"
	"github.com/smallnest/kwilsquid/metrics"
	"github.com/smallnest/kwilsquid/store"
	"github.com/smallnest/kwilsquid/store/file"
)

// DefaultStatusDir is where the default hooks keep status.txt.
const DefaultStatusDir = "./status"

var (
	// ErrConsistency means the stored checkpoint does not match what the
	// caller expects, usually because another processor wrote to it. It is
	// not retryable.
	ErrConsistency = errors.New("state was updated by foreign process, make sure no other processor is running")

	// ErrBusy is returned when Transact is called while another commit is
	// in progress.
	ErrBusy = errors.New("another commit is in progress")
)

// Phase is the stage of the current commit.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseExecuting
	PhasePersisting
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseExecuting:
		return "executing"
	case PhasePersisting:
		return "persisting"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(p))
	}
}

// TxInfo describes one block range handed over by the processor.
type TxInfo struct {
	// PrevHead is the checkpoint the range starts after.
	PrevHead store.HashAndHeight
	// NextHead is the last block of the range.
	NextHead store.HashAndHeight
	// IsOnTop reports whether NextHead is the chain head.
	IsOnTop bool
}

// Callback performs the writes of one range.
type Callback func(ctx context.Context, actions *action.Registry) error

type Config struct {
	Actions *action.Registry
	// Hooks persist the checkpoint. Defaults to status.txt under
	// DefaultStatusDir.
	Hooks   store.Hooks
	Logger  log.Logger
	Metrics *metrics.Metrics
}

// Database is the transaction coordinator.
type Database struct {
	actions *action.Registry
	hooks   store.Hooks
	logger  log.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	phase atomic.Int32
}

// New creates a Database.
func New(cfg Config) (*Database, error) {
	if cfg.Actions == nil {
		return nil, fmt.Errorf("actions registry is required")
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = file.New(dest.NewLocal(DefaultStatusDir))
	}
	return &Database{
		actions: cfg.Actions,
		hooks:   hooks,
		logger:  log.OrDefault(cfg.Logger),
		metrics: cfg.Metrics,
	}, nil
}

// Actions returns the registry handed to callbacks.
func (d *Database) Actions() *action.Registry {
	return d.actions
}

// Phase returns the stage of the commit in progress. Between commits it is
// PhaseIdle, or PhaseFailed when the last commit failed.
func (d *Database) Phase() Phase {
	return Phase(d.phase.Load())
}

func (d *Database) setPhase(p Phase) {
	d.phase.Store(int32(p))
}

// Connect discards any stored checkpoint and initializes a fresh one.
// Rows already written by an earlier run cannot be told apart from new
// ones, so every start begins from the sentinel baseline.
func (d *Database) Connect(ctx context.Context) (store.HashAndHeight, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.hooks.Reset(ctx); err != nil {
		return store.HashAndHeight{}, fmt.Errorf("failed to reset status: %w", err)
	}
	state, err := d.getState(ctx)
	if err != nil {
		return store.HashAndHeight{}, err
	}
	d.metrics.SetCheckpoint(state.Height)
	d.logger.Info("connected, starting from %s", state)
	return state, nil
}

// State returns the stored checkpoint, initializing it when absent.
func (d *Database) State(ctx context.Context) (store.HashAndHeight, error) {
	return d.getState(ctx)
}

// Transact runs cb for the range described by info and persists
// info.NextHead once cb succeeded. An error from cb is returned as is.
func (d *Database) Transact(ctx context.Context, info TxInfo, cb Callback) (err error) {
	if !d.mu.TryLock() {
		return ErrBusy
	}
	defer d.mu.Unlock()

	commitID := uuid.NewString()
	start := time.Now()
	status := metrics.StatusFailed
	defer func() {
		d.metrics.ObserveCommit(status, time.Since(start))
		if err != nil {
			d.setPhase(PhaseFailed)
			d.logger.Warn("commit %s failed: %v", commitID, err)
			return
		}
		d.setPhase(PhaseIdle)
	}()

	d.setPhase(PhaseValidating)
	state, err := d.getState(ctx)
	if err != nil {
		return err
	}
	if err := validate(state, info); err != nil {
		return err
	}

	d.setPhase(PhaseExecuting)
	d.logger.Debug("commit %s: %s -> %s (on top: %v)", commitID, state, info.NextHead, info.IsOnTop)
	if err := cb(ctx, d.actions); err != nil {
		return err
	}

	d.setPhase(PhasePersisting)
	if err := d.hooks.Update(ctx, info.NextHead, &state); err != nil {
		return err
	}

	status = metrics.StatusCommitted
	d.metrics.SetCheckpoint(info.NextHead.Height)
	d.logger.Info("commit %s: checkpoint advanced to %s", commitID, info.NextHead)
	return nil
}

func validate(state store.HashAndHeight, info TxInfo) error {
	if err := info.NextHead.Validate(); err != nil {
		return err
	}
	if info.PrevHead != state {
		return fmt.Errorf("%w: expected %s, stored %s", ErrConsistency, info.PrevHead, state)
	}
	if state.Height >= info.NextHead.Height {
		return fmt.Errorf("%w: next height %d does not advance %d", ErrConsistency, info.NextHead.Height, state.Height)
	}
	if state.Hash == info.NextHead.Hash {
		return fmt.Errorf("%w: next hash %s equals stored hash", ErrConsistency, info.NextHead.Hash)
	}
	return nil
}

func (d *Database) getState(ctx context.Context) (store.HashAndHeight, error) {
	state, err := d.hooks.Read(ctx)
	if err != nil {
		return store.HashAndHeight{}, err
	}
	if state == nil {
		initial := store.Initial()
		if err := d.hooks.Update(ctx, initial, nil); err != nil {
			return store.HashAndHeight{}, err
		}
		return initial, nil
	}
	if err := state.Validate(); err != nil {
		return store.HashAndHeight{}, err
	}
	return *state, nil
}
