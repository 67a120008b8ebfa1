package statusrec

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces run entries in Redis.
const DefaultKeyPrefix = "terrace:run:"

// Hash fields within a run entry.
const (
	fieldStatus = "status"
	fieldActor  = "status_actor"
	fieldCycles = "actual_cycles"
)

// RedisConfig configures the Redis-backed record.
type RedisConfig struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// KeyPrefix namespaces run keys (default terrace:run:).
	KeyPrefix string
}

// Redis is a Record backed by one Redis hash per run.
type Redis struct {
	config RedisConfig
	client *goredis.Client
}

// NewRedis creates a Redis-backed record from the given config.
// Returns an error if the URL is empty or invalid.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.URL == "" {
		return nil, errors.New("status record requires a Redis URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("status record: invalid URL: %w", err)
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}

	return &Redis{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

func (r *Redis) key(run string) string {
	return r.config.KeyPrefix + run
}

// Status implements Record. An absent entry is ErrUnknownRun.
func (r *Redis) Status(ctx context.Context, run string) (string, error) {
	status, err := r.client.HGet(ctx, r.key(run), fieldStatus).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("status record: %s: %w", run, ErrUnknownRun)
	}
	if err != nil {
		return "", fmt.Errorf("status record: read %s: %w", run, err)
	}
	return status, nil
}

// SetStatus implements Record.
func (r *Redis) SetStatus(ctx context.Context, run, status, actor string) error {
	err := r.client.HSet(ctx, r.key(run), fieldStatus, status, fieldActor, actor).Err()
	if err != nil {
		return fmt.Errorf("status record: update %s: %w", run, err)
	}
	return nil
}

// ActualCycleCount implements Record. An absent field reads as 0.
func (r *Redis) ActualCycleCount(ctx context.Context, run string) (int, error) {
	raw, err := r.client.HGet(ctx, r.key(run), fieldCycles).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("status record: read cycles for %s: %w", run, err)
	}
	cycles, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("status record: cycle count for %s is %q: %w", run, raw, err)
	}
	return cycles, nil
}

// Close releases the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Verify Redis implements the record interface.
var _ Record = (*Redis)(nil)
