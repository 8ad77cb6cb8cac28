package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/kwilsquid/store"
)

// Hooks keeps the checkpoint under a single Redis key, using the same
// two-line encoding as the status file.
type Hooks struct {
	client *redis.Client
	key    string
}

var _ store.Hooks = (*Hooks)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix, default "kwilsquid:"
}

// New creates hooks with a new client.
func New(opts Options) *Hooks {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, opts.Prefix)
}

// NewWithClient creates hooks on an existing client.
func NewWithClient(client *redis.Client, prefix string) *Hooks {
	if prefix == "" {
		prefix = "kwilsquid:"
	}
	return &Hooks{
		client: client,
		key:    prefix + "status",
	}
}

// Key returns the Redis key holding the checkpoint.
func (h *Hooks) Key() string {
	return h.key
}

func (h *Hooks) Read(ctx context.Context) (*store.HashAndHeight, error) {
	data, err := h.client.Get(ctx, h.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, store.StorageError("load status from redis", err)
	}

	state, err := store.Decode(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Update uses one SET, which Redis applies atomically.
func (h *Hooks) Update(ctx context.Context, next store.HashAndHeight, _ *store.HashAndHeight) error {
	if err := h.client.Set(ctx, h.key, store.Encode(next), 0).Err(); err != nil {
		return store.StorageError("save status to redis", err)
	}
	return nil
}

func (h *Hooks) Reset(ctx context.Context) error {
	if err := h.client.Del(ctx, h.key).Err(); err != nil {
		return store.StorageError("delete status from redis", err)
	}
	return nil
}

// Close closes the underlying client.
func (h *Hooks) Close() error {
	if err := h.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
