package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankqr/internal/platform/config"
)

func TestNew_NotConfigured(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "://nope"})
	assert.ErrorContains(t, err, "parse redis URL")
}
