package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityKey(t *testing.T) {
	assert.Equal(t, "availability:12:2025-06-01", AvailabilityKey(12, "2025-06-01"))
}

// Runs against a real server when TEST_REDIS_URL is set.
func TestAvailabilityCache_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	c := NewAvailabilityCache(client, time.Minute)
	hallID := time.Now().UnixNano()

	var got map[string]any
	ok, err := c.GetDay(ctx, hallID, "2025-06-01", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetDay(ctx, hallID, "2025-06-01", map[string]any{"date": "2025-06-01"}))
	ok, err = c.GetDay(ctx, hallID, "2025-06-01", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2025-06-01", got["date"])

	require.NoError(t, c.InvalidateDay(ctx, hallID, "2025-06-01"))
	ok, err = c.GetDay(ctx, hallID, "2025-06-01", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
