package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"parceldesk/api/internal/model"
)

// Snapshot is the local fallback cache for one entity kind. Writes
// always cover the complete collection so the cache can never hold a
// partial view.
type Snapshot[T model.Record] interface {
	Load(ctx context.Context) []T
	Save(ctx context.Context, items []T) error
	Clear(ctx context.Context) error
}

// snapshotKV is the slice of the redis client the snapshot needs.
type snapshotKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSnapshot persists one entity collection as a single JSON value
// under console:cache:<kind>. Snapshots never expire; a successful
// remote reload overwrites them.
type RedisSnapshot[T model.Record] struct {
	rdb snapshotKV
	key string
}

// NewRedisSnapshot creates the snapshot store for one entity kind.
func NewRedisSnapshot[T model.Record](rdb *redis.Client, kind string) *RedisSnapshot[T] {
	return &RedisSnapshot[T]{rdb: rdb, key: fmt.Sprintf("console:cache:%s", kind)}
}

// newRedisSnapshotKV is the seam tests use to substitute the client.
func newRedisSnapshotKV[T model.Record](rdb snapshotKV, kind string) *RedisSnapshot[T] {
	return &RedisSnapshot[T]{rdb: rdb, key: fmt.Sprintf("console:cache:%s", kind)}
}

// Load returns the cached collection. A missing key, a redis error or a
// corrupt payload all degrade to an empty collection; nothing here is
// allowed to fail the caller.
func (s *RedisSnapshot[T]) Load(ctx context.Context) []T {
	data, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] read %s failed: %v", s.key, err)
		}
		return nil
	}

	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Printf("[Cache] corrupt snapshot at %s, discarding: %v", s.key, err)
		return nil
	}
	return items
}

// Save replaces the cached collection.
func (s *RedisSnapshot[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", s.key, err)
	}
	if err := s.rdb.Set(ctx, s.key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	return nil
}

// Clear drops the cached collection.
func (s *RedisSnapshot[T]) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear snapshot %s: %w", s.key, err)
	}
	return nil
}
