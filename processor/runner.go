package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/smallnest/kwilsquid/action"
	"github.com/smallnest/kwilsquid/database"
	"github.com/smallnest/kwilsquid/log"
)

// Handler writes the data of one block range through the registry.
type Handler func(ctx context.Context, blocks []Block, actions *action.Registry) error

// Options configures a Runner.
type Options struct {
	// RangeSize is the maximum number of blocks per commit. Default 100.
	RangeSize int
	// From is the first height fetched when the checkpoint is the initial
	// sentinel.
	From int64
	// To is the last height to process when positive. Otherwise the
	// source is followed until it drains or ctx is done.
	To int64
	// IdleInterval is the wait before asking a drained source again.
	// Default 1s.
	IdleInterval time.Duration
	// StopWhenDrained ends Run when the source has no more blocks.
	StopWhenDrained bool
	Logger          log.Logger
}

// Runner feeds block ranges from a Source into a Database.
type Runner struct {
	db     *database.Database
	source Source
	opts   Options
	logger log.Logger
}

// NewRunner creates a runner.
func NewRunner(db *database.Database, source Source, opts Options) *Runner {
	if opts.RangeSize <= 0 {
		opts.RangeSize = 100
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = time.Second
	}
	return &Runner{
		db:     db,
		source: source,
		opts:   opts,
		logger: log.OrDefault(opts.Logger),
	}
}

// Run connects the database and processes ranges until the source is
// drained, To is reached, ctx is done, or a commit fails. A failed commit
// is returned as is and the checkpoint stays at the last committed range.
func (r *Runner) Run(ctx context.Context, handler Handler) error {
	head, err := r.db.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	for {
		from := head.Height + 1
		if head.IsInitial() && r.opts.From > from {
			from = r.opts.From
		}
		limit := r.opts.RangeSize
		if r.opts.To > 0 {
			if from > r.opts.To {
				r.logger.Info("reached height %d, stopping", r.opts.To)
				return nil
			}
			limit = int(min(int64(limit), r.opts.To-from+1))
		}

		blocks, err := r.source.Next(ctx, from, limit)
		if err != nil {
			return fmt.Errorf("failed to fetch blocks after %d: %w", head.Height, err)
		}

		if len(blocks) == 0 {
			if r.opts.StopWhenDrained {
				r.logger.Info("source drained at %s", head)
				return nil
			}
			select {
			case <-time.After(r.opts.IdleInterval):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		next := blocks[len(blocks)-1].Header.HashAndHeight()
		info := database.TxInfo{
			PrevHead: head,
			NextHead: next,
			IsOnTop:  len(blocks) < limit,
		}
		err = r.db.Transact(ctx, info, func(ctx context.Context, actions *action.Registry) error {
			return handler(ctx, blocks, actions)
		})
		if err != nil {
			return err
		}

		r.logger.Debug("processed blocks %d-%d", blocks[0].Header.Height, next.Height)
		head = next
	}
}
