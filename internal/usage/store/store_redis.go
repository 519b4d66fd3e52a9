package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"bankqr/pkg/platform/sentinel"
)

const (
	// Redis key prefix for daily usage hashes; one field per label
	usageKeyPrefix = "bankqr:usage:"

	// DefaultRetention keeps daily hashes for roughly three months.
	DefaultRetention = 90 * 24 * time.Hour
)

// RedisStore keeps daily counters in a Redis hash per day so several
// instances share one set of counters.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

type RedisOption func(*RedisStore)

// WithRetention sets how long a day's hash survives after its last write.
func WithRetention(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.retention = d
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, retention: DefaultRetention}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func key(day string) string {
	return usageKeyPrefix + day
}

// Increment bumps the label counter and refreshes the expiry atomically.
func (s *RedisStore) Increment(ctx context.Context, day, label string) error {
	k := key(day)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, k, label, 1)
	pipe.Expire(ctx, k, s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment usage %s/%s: %w: %w", day, label, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Counts(ctx context.Context, day string) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, key(day)).Result()
	if err != nil {
		return nil, fmt.Errorf("read usage %s: %w: %w", day, sentinel.ErrUnavailable, err)
	}
	out := make(map[string]int64, len(raw))
	for label, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("usage %s/%s holds non-integer %q: %w", day, label, v, err)
		}
		out[label] = n
	}
	return out, nil
}
