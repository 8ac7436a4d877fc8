package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type snapshotKey string

type exampleSnapshot struct {
	Groups []string
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[snapshotKey, exampleSnapshot]("registry", DefaultExpiration, DefaultCleanupInterval)
	snap := exampleSnapshot{Groups: []string{"retail-flavors"}}
	cache.Set(context.Background(), "registry.yaml", snap, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "registry.yaml")
	require.True(t, ok)
	require.Equal(t, snap, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "registry.yaml")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("registry.yaml", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "registry.yaml")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 50*time.Millisecond)

	got, ok := cache.GetWithRefresh(context.Background(), "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(80 * time.Millisecond)
	_, ok = cache.Get(context.Background(), "k")
	require.True(t, ok, "refresh extended the ttl")
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	require.Equal(t, 1, cache.Len())
	require.NoError(t, cache.Delete(ctx))

	require.NoError(t, cache.Flush(ctx))
	require.Zero(t, cache.Len())
}
