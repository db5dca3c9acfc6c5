package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lastSourceKey = "autopilot:rotation:last"
	markerPrefix  = "autopilot:marker:"

	lastSourceTTL = 30 * 24 * time.Hour
	markerTTL     = 90 * 24 * time.Hour
)

// RedisStore caches run state in Redis. Opt-in alternative to the
// default CMS-derived store; markers expire, so the duplicate detector
// still runs against the CMS on every publish.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) LastSource(ctx context.Context) (string, error) {
	res, err := s.rdb.Get(ctx, lastSourceKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func (s *RedisStore) SetLastSource(ctx context.Context, name string) error {
	return s.rdb.Set(ctx, lastSourceKey, name, lastSourceTTL).Err()
}

func (s *RedisStore) SeenMarker(ctx context.Context, marker string) (bool, error) {
	_, err := s.rdb.Get(ctx, markerPrefix+marker).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) MarkSeen(ctx context.Context, marker string) error {
	return s.rdb.Set(ctx, markerPrefix+marker, "1", markerTTL).Err()
}
