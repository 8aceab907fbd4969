package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

func newTestCache(t *testing.T) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCache(client, time.Minute), mr
}

func TestViewCache_GetSet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	pages := 300
	q := book.Query{AuthorName: "steph"}

	_, gen, ok, err := cache.Get(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, gen)

	views := []book.View{{
		ID:            "B1",
		Title:         "T1",
		Authors:       []book.AuthorRef{{ID: "A1", Name: "Name1"}},
		Works:         []book.WorkRef{{ID: "W1", Title: "Work1"}},
		NumberOfPages: &pages,
	}}
	require.NoError(t, cache.Set(ctx, q, gen, views))

	got, _, ok, err := cache.Get(ctx, q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, views, got)

	// TTL生效
	mr.FastForward(2 * time.Minute)
	_, _, ok, err = cache.Get(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestViewCache_EmptyResultIsCached(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, book.Query{}, 0, []book.View{}))

	got, _, ok, err := cache.Get(ctx, book.Query{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestViewCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	minPages := 100

	require.NoError(t, cache.Set(ctx, book.Query{}, 0, []book.View{}))
	require.NoError(t, cache.Set(ctx, book.Query{MinPages: &minPages}, 0, []book.View{}))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(cacheKey(0, book.Query{})), "旧代的Key被清理")
	assert.True(t, mr.Exists("other:key"), "只清理catalog前缀")
	gen, err := mr.Get(keyGeneration)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	_, next, ok, err := cache.Get(ctx, book.Query{MinPages: &minPages})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, next)
}

func TestViewCache_WriteAfterInvalidateIsNotServed(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	stale := []book.View{{ID: "B1", Authors: []book.AuthorRef{}, Works: []book.WorkRef{}}}

	// 读方未命中后去查库,查询结果是删除前的快照
	_, gen, ok, err := cache.Get(ctx, book.Query{})
	require.NoError(t, err)
	require.False(t, ok)

	// 写方在读方回写之前提交并失效
	require.NoError(t, cache.Invalidate(ctx))

	// 读方带着旧代数回写
	require.NoError(t, cache.Set(ctx, book.Query{}, gen, stale))

	_, _, ok, err = cache.Get(ctx, book.Query{})
	require.NoError(t, err)
	assert.False(t, ok, "失效之后的旧结果不能被读到")
}

func TestViewCache_InvalidateKeepsCurrentGeneration(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(keyGeneration, "4"))
	require.NoError(t, cache.Set(ctx, book.Query{}, 5, []book.View{}))

	require.NoError(t, cache.Invalidate(ctx))
	assert.True(t, mr.Exists(cacheKey(5, book.Query{})), "新代写入的结果保留")
}

func TestViewCache_RedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, ok, err := cache.Get(context.Background(), book.Query{})
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, cache.Invalidate(context.Background()))
}

func TestCacheKey(t *testing.T) {
	minPages := 50
	assert.Equal(t, "catalog:v0:books:all", cacheKey(0, book.Query{}))
	assert.Equal(t,
		"catalog:v3:search:author=Stephen+King&min_pages=50&work=It",
		cacheKey(3, book.Query{AuthorName: "Stephen King", WorkTitle: "It", MinPages: &minPages}))
	assert.NotEqual(t,
		cacheKey(0, book.Query{AuthorName: "a"}),
		cacheKey(0, book.Query{WorkTitle: "a"}))
	assert.NotEqual(t, cacheKey(1, book.Query{}), cacheKey(11, book.Query{}))
}
