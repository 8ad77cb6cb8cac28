package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallnest/kwilsquid/kwil"
	"github.com/smallnest/kwilsquid/log"
	"github.com/smallnest/kwilsquid/metrics"
)

const (
	DefaultPollInterval         = 500 * time.Millisecond
	DefaultMaxTransientFailures = 4
	// NoTransientRetries makes the first failed status query final.
	NoTransientRetries = -1
)

var errNoResult = errors.New("no transaction result returned")

// poller waits for one transaction to leave the pending state.
type poller struct {
	action         string
	client         kwil.Client
	interval       time.Duration
	maxTransient   int
	pendingTimeout time.Duration
	clock          Clock
	logger         log.Logger
	metrics        *metrics.Metrics
}

// wait polls hash until it is confirmed. Every query is preceded by one
// interval. Query errors count as transient failures and a pending answer
// resets the count; a failure after maxTransient consecutive ones ends the
// wait.
func (p *poller) wait(ctx context.Context, hash []byte) (*kwil.TxQueryResponse, error) {
	start := p.clock.Now()
	transient := 0
	polls := 0

	for {
		select {
		case <-p.clock.After(p.interval):
		case <-ctx.Done():
			return nil, fmt.Errorf("polling transaction %x cancelled: %w", hash, ctx.Err())
		}

		polls++
		resp, err := p.client.TxQuery(ctx, hash)
		if err == nil && (resp == nil || resp.TxResult == nil) {
			err = errNoResult
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("polling transaction %x cancelled: %w", hash, ctx.Err())
			}
			p.metrics.ObservePoll(p.action, metrics.PollTransient)
			if transient >= p.maxTransient {
				return nil, &DeliveryError{Kind: DeliveryTimeout, Action: p.action, TxHash: hash, Err: err}
			}
			transient++
			p.logger.Debug("tx %x not queryable yet (%d/%d): %v", hash, transient, p.maxTransient, err)
			continue
		}

		switch resp.TxResult.Log {
		case kwil.LogSuccess:
			p.metrics.ObservePoll(p.action, metrics.PollSuccess)
			p.logger.Debug("tx %x confirmed after %d polls", hash, polls)
			return resp, nil
		case kwil.LogPending:
			p.metrics.ObservePoll(p.action, metrics.PollPending)
			transient = 0
			if p.pendingTimeout > 0 && p.clock.Now().Sub(start) >= p.pendingTimeout {
				return nil, &DeliveryError{
					Kind:   DeliveryTimeout,
					Action: p.action,
					TxHash: hash,
					Err:    fmt.Errorf("still pending after %v", p.pendingTimeout),
				}
			}
		default:
			p.metrics.ObservePoll(p.action, metrics.PollRejected)
			return nil, &DeliveryError{Kind: DeliveryRejected, Action: p.action, TxHash: hash, Log: resp.TxResult.Log}
		}
	}
}
