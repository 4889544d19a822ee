package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Run registry states.
const (
	runStateRunning = "RUNNING"
	runStateDone    = "DONE"
	runStateFailed  = "FAILED"
)

// RunRegistry tracks which requests have an active pipeline run. The
// check is advisory: Exists-then-Register leaves a race window, which
// the design accepts instead of taking a per-key lease.
type RunRegistry interface {
	Exists(ctx context.Context, requestID int64) (bool, error)
	Register(ctx context.Context, requestID int64) error
	Complete(ctx context.Context, requestID int64) error
	Fail(ctx context.Context, requestID int64, note string) error
}

// RedisRegistry keeps run markers in Redis with a TTL window, so stale
// markers from crashed runs eventually expire on their own.
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry returns a registry bound to a Redis client.
// ttl bounds how long a marker outlives its run (e.g. 24h).
func NewRedisRegistry(client *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, ttl: ttl}
}

func runKey(requestID int64) string {
	return fmt.Sprintf("pipeline:run:%d", requestID)
}

// Exists reports whether a run is currently active for the request.
func (r *RedisRegistry) Exists(ctx context.Context, requestID int64) (bool, error) {
	state, err := r.client.Get(ctx, runKey(requestID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get run marker: %w", err)
	}
	return state == runStateRunning, nil
}

// Register marks the request as having an active run.
func (r *RedisRegistry) Register(ctx context.Context, requestID int64) error {
	if err := r.client.Set(ctx, runKey(requestID), runStateRunning, r.ttl).Err(); err != nil {
		return fmt.Errorf("set run marker: %w", err)
	}
	return nil
}

// Complete marks the run as finished with a terminal outcome.
func (r *RedisRegistry) Complete(ctx context.Context, requestID int64) error {
	if err := r.client.Set(ctx, runKey(requestID), runStateDone, r.ttl).Err(); err != nil {
		return fmt.Errorf("set run marker: %w", err)
	}
	return nil
}

// Fail marks the run as aborted by an infrastructure failure, keeping
// the note for operators.
func (r *RedisRegistry) Fail(ctx context.Context, requestID int64, note string) error {
	value := runStateFailed
	if note != "" {
		value = runStateFailed + ":" + note
	}
	if err := r.client.Set(ctx, runKey(requestID), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set run marker: %w", err)
	}
	return nil
}
