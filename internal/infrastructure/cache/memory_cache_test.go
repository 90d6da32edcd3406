package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewInMemoryCache()

		require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

		got, ok, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("value"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewInMemoryCache()

		_, ok, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entry is evicted", func(t *testing.T) {
		c := NewInMemoryCache()

		require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, ok, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero TTL never expires", func(t *testing.T) {
		c := NewInMemoryCache()

		require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))

		_, ok, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete removes multiple keys", func(t *testing.T) {
		c := NewInMemoryCache()

		require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
		require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Minute))

		require.NoError(t, c.Delete(ctx, "a", "b", "missing"))

		_, ok, _ := c.Get(ctx, "a")
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, "c")
		assert.True(t, ok)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		c := NewInMemoryCache()

		require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

		got, _, _ := c.Get(ctx, "key")
		got[0] = 'X'

		again, _, _ := c.Get(ctx, "key")
		assert.Equal(t, []byte("value"), again)
	})
}
