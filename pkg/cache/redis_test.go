package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)

	return client, mr
}

func TestSetGet(t *testing.T) {
	client, mr := setupTestClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	err := client.Set(ctx, "key1", "value1", time.Minute)
	assert.NoError(t, err)

	val, err := client.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.Equal(t, "value1", val)
}

func TestExists(t *testing.T) {
	client, mr := setupTestClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	exists, err := client.Exists(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, client.Set(ctx, "present", "1", time.Minute))

	exists, err = client.Exists(ctx, "present")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestDelete(t *testing.T) {
	client, mr := setupTestClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "gone", "1", time.Minute))
	assert.NoError(t, client.Delete(ctx, "gone"))

	exists, err := client.Exists(ctx, "gone")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestExpiration(t *testing.T) {
	client, mr := setupTestClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "ephemeral", "1", time.Second))

	// miniredis advances time manually
	mr.FastForward(2 * time.Second)

	exists, err := client.Exists(ctx, "ephemeral")
	assert.NoError(t, err)
	assert.False(t, exists)
}
