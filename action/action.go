package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/smallnest/kwilsquid/kwil"
	"github.com/smallnest/kwilsquid/log"
	"github.com/smallnest/kwilsquid/metrics"
)

// Executor is the part of an Action used by callers that only submit rows.
type Executor interface {
	Name() string
	Execute(ctx context.Context, inputs ...*kwil.ActionInput) error
}

// Config configures an Action.
type Config struct {
	// Name of the remote action, e.g. "add_records".
	Name string
	// DBID of the target database.
	DBID *Deferred[string]
	// Signer signs every transaction.
	Signer kwil.Signer
	// PublicKey of the sender. Defaults to the signer's public key.
	PublicKey *Deferred[[]byte]
	Client    kwil.Client
	// ChainID defaults to the one reported by the remote node.
	ChainID *Deferred[string]
	// Description is shown to wallets asked to sign.
	Description string

	PollInterval time.Duration
	// MaxTransientFailures is the number of consecutive failed status
	// queries retried before giving up. Zero selects the default of 4;
	// NoTransientRetries fails on the first query error.
	MaxTransientFailures int
	// PendingTimeout bounds the time spent waiting on a pending
	// transaction. Zero waits forever.
	PendingTimeout time.Duration
	Clock          Clock

	Logger  log.Logger
	Metrics *metrics.Metrics
}

// Action submits rows to one remote action.
type Action struct {
	name        string
	description string
	dbid        *Deferred[string]
	publicKey   *Deferred[[]byte]
	chainID     *Deferred[string]
	client      kwil.Client
	builder     *kwil.Builder
	poller      *poller
	clock       Clock
	logger      log.Logger
	metrics     *metrics.Metrics

	mu sync.Mutex
}

var _ Executor = (*Action)(nil)

// New validates cfg and creates an Action.
func New(cfg Config) (*Action, error) {
	var result *multierror.Error
	if cfg.Name == "" {
		result = multierror.Append(result, errors.New("action name is required"))
	}
	if cfg.DBID == nil {
		result = multierror.Append(result, errors.New("dbid is required"))
	}
	if cfg.Signer == nil {
		result = multierror.Append(result, errors.New("signer is required"))
	}
	if cfg.Client == nil {
		result = multierror.Append(result, errors.New("client is required"))
	}
	if cfg.PollInterval < 0 || cfg.PendingTimeout < 0 {
		result = multierror.Append(result, errors.New("poll settings must not be negative"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid action config: %w", err)
	}

	publicKey := cfg.PublicKey
	if publicKey == nil {
		publicKey = Lazy(cfg.Signer.PublicKey)
	}
	chainID := cfg.ChainID
	if chainID == nil {
		client := cfg.Client
		chainID = Lazy(func(ctx context.Context) (string, error) {
			info, err := client.ChainInfo(ctx)
			if err != nil {
				return "", err
			}
			return info.ChainID, nil
		})
	}
	interval := cfg.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	maxTransient := cfg.MaxTransientFailures
	switch {
	case maxTransient == 0:
		maxTransient = DefaultMaxTransientFailures
	case maxTransient < 0:
		maxTransient = 0
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock
	}
	logger := log.OrDefault(cfg.Logger)

	return &Action{
		name:        cfg.Name,
		description: cfg.Description,
		dbid:        cfg.DBID,
		publicKey:   publicKey,
		chainID:     chainID,
		client:      cfg.Client,
		builder:     kwil.NewBuilder(cfg.Client, cfg.Signer),
		poller: &poller{
			action:         cfg.Name,
			client:         cfg.Client,
			interval:       interval,
			maxTransient:   maxTransient,
			pendingTimeout: cfg.PendingTimeout,
			clock:          clock,
			logger:         logger,
			metrics:        cfg.Metrics,
		},
		clock:   clock,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

func (a *Action) Name() string {
	return a.name
}

// DBID resolves the target database id.
func (a *Action) DBID(ctx context.Context) (string, error) {
	return a.dbid.Resolve(ctx)
}

// Execute sends inputs as a single transaction and returns once the remote
// database confirmed it. Concurrent calls on one Action run one at a time.
func (a *Action) Execute(ctx context.Context, inputs ...*kwil.ActionInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := a.clock.Now()
	err := a.execute(ctx, inputs)

	status := metrics.StatusCommitted
	if err != nil {
		status = metrics.StatusFailed
		var de *DeliveryError
		if errors.As(err, &de) && de.Kind == DeliveryRejected {
			status = metrics.StatusRejected
		}
	}
	a.metrics.ObserveExecution(a.name, status, len(inputs), a.clock.Now().Sub(start))
	return err
}

func (a *Action) execute(ctx context.Context, inputs []*kwil.ActionInput) error {
	publicKey, err := a.publicKey.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve public key: %w", err)
	}

	a.logger.Debug("attempting to deploy %d records to %s", len(inputs), a.name)

	dbid, err := a.dbid.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve dbid: %w", err)
	}
	chainID, err := a.chainID.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve chain id: %w", err)
	}

	tx, err := a.builder.Build(ctx, kwil.ActionTx{
		DBID:        dbid,
		Action:      a.name,
		Inputs:      kwil.Batch(inputs),
		PublicKey:   publicKey,
		ChainID:     chainID,
		Description: a.description,
	})
	if err != nil {
		return &DeliveryError{Kind: DeliverySubmit, Action: a.name, Err: fmt.Errorf("failed to build transaction: %w", err)}
	}

	hash, err := a.client.Broadcast(ctx, tx)
	if err != nil {
		return &DeliveryError{Kind: DeliverySubmit, Action: a.name, Err: err}
	}
	if len(hash) == 0 {
		return &DeliveryError{Kind: DeliveryNoHash, Action: a.name}
	}
	a.logger.Debug("broadcast %s tx %x", a.name, hash)

	if _, err := a.poller.wait(ctx, hash); err != nil {
		return err
	}

	a.logger.Info("Successfully deployed %d records to Kwil Database.", len(inputs))
	return nil
}
