package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"bankqr/pkg/platform/sentinel"
)

func TestRedisStore_UnreachableIsUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	s := NewRedis(client)

	err := s.Increment(context.Background(), "2026-01-15", "Primary")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	_, err = s.Counts(context.Background(), "2026-01-15")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestNewRedis_Retention(t *testing.T) {
	assert.Equal(t, DefaultRetention, NewRedis(nil).retention)
	assert.Equal(t, time.Hour, NewRedis(nil, WithRetention(time.Hour)).retention)
	assert.Equal(t, DefaultRetention, NewRedis(nil, WithRetention(-time.Second)).retention)
}
