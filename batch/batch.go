// Package batch groups action input rows into transactions of bounded
// size.
package batch

import (
	"context"

	"github.com/smallnest/kwilsquid/kwil"
)

// DefaultSize keeps a transaction of typical rows under the remote payload
// ceiling.
const DefaultSize = 1000

// Executor delivers a batch of rows. *action.Action satisfies it.
type Executor interface {
	Execute(ctx context.Context, inputs ...*kwil.ActionInput) error
}

// Accumulator buffers rows and executes them every Size rows. The trailing
// partial batch is only sent by an explicit Flush.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	exec    Executor
	size    int
	buf     []*kwil.ActionInput
	flushed int
}

// New returns an accumulator executing through exec. A size <= 0 selects
// DefaultSize.
func New(exec Executor, size int) *Accumulator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Accumulator{
		exec: exec,
		size: size,
		buf:  make([]*kwil.ActionInput, 0, size),
	}
}

// Add appends input and executes the buffer when it reaches the threshold.
// On error the buffer is kept, including input.
func (a *Accumulator) Add(ctx context.Context, input *kwil.ActionInput) error {
	a.buf = append(a.buf, input)
	if len(a.buf) >= a.size {
		return a.Flush(ctx)
	}
	return nil
}

// Flush executes the buffered rows, if any, and clears the buffer on
// success.
func (a *Accumulator) Flush(ctx context.Context) error {
	if len(a.buf) == 0 {
		return nil
	}
	if err := a.exec.Execute(ctx, a.buf...); err != nil {
		return err
	}
	a.flushed += len(a.buf)
	a.buf = make([]*kwil.ActionInput, 0, a.size)
	return nil
}

// Len returns the number of buffered rows.
func (a *Accumulator) Len() int {
	return len(a.buf)
}

// Size returns the flush threshold.
func (a *Accumulator) Size() int {
	return a.size
}

// Flushed returns the number of rows delivered so far.
func (a *Accumulator) Flushed() int {
	return a.flushed
}
