package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no snapshot has been persisted.
var ErrNotFound = errors.New("snapshot not found")

// ErrUnavailable is returned when the durable backend cannot be reached.
// Callers must fail closed: an unreachable snapshot is never treated as an
// empty one for write purposes.
var ErrUnavailable = errors.New("snapshot backend unavailable")

// Store is the Redis-backed durable snapshot store. It owns exactly one key;
// nothing else in the process may read or write session state through any
// other path.
//
//	Docs: docs/snapshot.md
type Store struct {
	redis redis.UniversalClient
	key   string
}

// NewStore creates a snapshot [Store] over the given Redis client. key is
// the single durable key the session mirror lives under.
func NewStore(client redis.UniversalClient, key string) *Store {
	return &Store{
		redis: client,
		key:   key,
	}
}

// Load reads and decodes the persisted snapshot.
//
//	Performance: 1 Redis GET.
//
// Returns [ErrNotFound] when the key is absent, [ErrCorrupt] when the value
// does not decode, and [ErrUnavailable] when Redis cannot be reached.
func (s *Store) Load(ctx context.Context) (Record, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return Decode(data)
}

// Save encodes and persists the snapshot, replacing any previous value.
//
//	Performance: 1 Redis SET.
func (s *Store) Save(ctx context.Context, r Record) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the persisted snapshot. Idempotent: deleting an absent
// snapshot is not an error.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time backend availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
