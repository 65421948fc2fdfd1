package business

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royak47/autofor/internal/domain/auth/entities"
)

func TestPendingStore(t *testing.T) {
	store := NewPendingStore()
	now := time.Now()

	first := &entities.PendingLogin{Phone: "+1555", ExpiresAt: now.Add(time.Minute)}
	assert.Nil(t, store.Put(first))

	second := &entities.PendingLogin{Phone: "+1555", ExpiresAt: now.Add(time.Minute)}
	assert.Same(t, first, store.Put(second), "Put returns the replaced login")

	got, ok := store.Get("+1555")
	require.True(t, ok)
	assert.Same(t, second, got)

	assert.False(t, store.Delete(first), "a stale login must not evict its replacement")
	assert.Equal(t, 1, store.Count())

	assert.True(t, store.Delete(second))
	assert.Equal(t, 0, store.Count())
}

func TestPendingStore_ExpiredAndDrain(t *testing.T) {
	store := NewPendingStore()
	now := time.Now()

	store.Put(&entities.PendingLogin{Phone: "old", ExpiresAt: now.Add(-time.Second)})
	store.Put(&entities.PendingLogin{Phone: "fresh", ExpiresAt: now.Add(time.Minute)})
	store.Put(&entities.PendingLogin{Phone: "no-ttl"})

	assert.Equal(t, []string{"old"}, store.Expired(now))

	drained := store.Drain()
	assert.Len(t, drained, 3)
	assert.Equal(t, 0, store.Count())
}
