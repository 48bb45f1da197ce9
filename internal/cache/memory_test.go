package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMemory() (*Memory, *clock) {
	c := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemory().WithClock(func() time.Time { return c.now }), c
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		m, _ := newTestMemory()
		m.Set(ctx, "k", "value", time.Minute)

		var got string
		require.True(t, m.Get(ctx, "k", &got))
		assert.Equal(t, "value", got)
		assert.True(t, m.Has(ctx, "k"))
	})

	t.Run("MissOnAbsentKey", func(t *testing.T) {
		m, _ := newTestMemory()
		var got string
		assert.False(t, m.Get(ctx, "nope", &got))
		assert.False(t, m.Has(ctx, "nope"))
	})

	t.Run("StructValues", func(t *testing.T) {
		type payload struct {
			Name  string
			Count int
		}
		m, _ := newTestMemory()
		m.Set(ctx, "p", payload{Name: "a", Count: 3}, time.Minute)

		var got payload
		require.True(t, m.Get(ctx, "p", &got))
		assert.Equal(t, payload{Name: "a", Count: 3}, got)
	})

	t.Run("TypeMismatchIsAMiss", func(t *testing.T) {
		m, _ := newTestMemory()
		m.Set(ctx, "k", "text", time.Minute)

		var got int
		assert.False(t, m.Get(ctx, "k", &got))
	})

	t.Run("OverwriteReplacesValueAndTTL", func(t *testing.T) {
		m, c := newTestMemory()
		m.Set(ctx, "k", "old", time.Minute)
		m.Set(ctx, "k", "new", time.Hour)

		c.advance(30 * time.Minute)
		var got string
		require.True(t, m.Get(ctx, "k", &got))
		assert.Equal(t, "new", got)
	})
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("EntryLivesUntilTTL", func(t *testing.T) {
		m, c := newTestMemory()
		m.Set(ctx, "k", "v", time.Minute)

		c.advance(time.Minute)
		assert.True(t, m.Has(ctx, "k"), "entry live at exactly its TTL")

		c.advance(time.Nanosecond)
		assert.False(t, m.Has(ctx, "k"))
		var got string
		assert.False(t, m.Get(ctx, "k", &got))
	})

	t.Run("NonPositiveTTLNeverExpires", func(t *testing.T) {
		m, c := newTestMemory()
		m.Set(ctx, "k", "v", 0)

		c.advance(24 * time.Hour)
		assert.True(t, m.Has(ctx, "k"))
	})

	t.Run("LazyEvictionOnGet", func(t *testing.T) {
		m, c := newTestMemory()
		m.Set(ctx, "k", "v", time.Minute)
		c.advance(2 * time.Minute)

		var got string
		assert.False(t, m.Get(ctx, "k", &got))
		assert.Equal(t, 0, m.Size(ctx))
	})
}

func TestMemoryCleanUp(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()

	m.Set(ctx, "short", "v", time.Minute)
	m.Set(ctx, "long", "v", time.Hour)
	m.Set(ctx, "forever", "v", 0)
	require.Equal(t, 3, m.Size(ctx))

	c.advance(2 * time.Minute)
	m.CleanUp(ctx)

	assert.Equal(t, 2, m.Size(ctx))
	assert.False(t, m.Has(ctx, "short"))
	assert.True(t, m.Has(ctx, "long"))
	assert.True(t, m.Has(ctx, "forever"))
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	m.Set(ctx, "k", "v", time.Minute)
	m.Delete(ctx, "k")
	assert.False(t, m.Has(ctx, "k"))

	// Deleting an absent key is a no-op.
	m.Delete(ctx, "k")
}
