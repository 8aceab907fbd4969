package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

const (
	keyPrefix     = "catalog:"
	keyGeneration = keyPrefix + "generation"
	keyViews      = keyPrefix + "v"
)

// ViewCache 图书视图缓存
// 设计说明：
// 1. 只缓存读模型（全部图书、各查询条件的结果），写操作一律整体失效
// 2. Key设计：catalog:v{代数}:books:all、catalog:v{代数}:search:{编码后的查询条件}
// 3. 失效即代数加一。读方在查询数据库之前拿到代数，回写时带回来，
//    失效之后的回写只会落在旧代的Key上，新读者看不到
// 4. 缓存是旁路的：调用方在读失败时应回源数据库，而不是报错
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache 创建视图缓存
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// Get 读取缓存，未命中时ok=false，generation用于随后的Set
func (c *ViewCache) Get(ctx context.Context, q book.Query) ([]book.View, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		metrics.RecordCacheLookup("error")
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, cacheKey(gen, q)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup("miss")
			return nil, gen, false, nil
		}
		metrics.RecordCacheLookup("error")
		return nil, 0, false, apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "读取缓存失败")
	}

	views := []book.View{}
	if err := json.Unmarshal(data, &views); err != nil {
		// 格式不兼容的旧数据按未命中处理
		metrics.RecordCacheLookup("miss")
		return nil, gen, false, nil
	}
	metrics.RecordCacheLookup("hit")
	return views, gen, true, nil
}

// Set 写入generation代的缓存
func (c *ViewCache) Set(ctx context.Context, q book.Query, generation int64, views []book.View) error {
	data, err := json.Marshal(views)
	if err != nil {
		return apperrors.Wrap(err, "序列化缓存失败")
	}
	if err := c.client.Set(ctx, cacheKey(generation, q), data, c.ttl).Err(); err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "写入缓存失败")
	}
	return nil
}

// Invalidate 代数加一，再清理旧代的Key
// 清理失败不影响正确性，旧Key到期自然消失
// 使用SCAN而不是KEYS，避免阻塞Redis
func (c *ViewCache) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, keyGeneration).Result()
	if err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "递增缓存代数失败")
	}

	current := generationPrefix(gen)
	iter := c.client.Scan(ctx, 0, keyViews+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if key := iter.Val(); !strings.HasPrefix(key, current) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "扫描缓存失败")
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "删除缓存失败")
	}
	return nil
}

// generation 当前缓存代数，Key不存在时为0
func (c *ViewCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, keyGeneration).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperrors.WrapCode(apperrors.ErrCodeRedisError, err, "读取缓存代数失败")
	}
	return gen, nil
}

func generationPrefix(gen int64) string {
	return keyViews + strconv.FormatInt(gen, 10) + ":"
}

// cacheKey 代数+查询条件 → 缓存Key，url.Values.Encode按键排序，结果稳定
func cacheKey(gen int64, q book.Query) string {
	prefix := generationPrefix(gen)
	if q.IsEmpty() {
		return prefix + "books:all"
	}
	v := url.Values{}
	if q.AuthorName != "" {
		v.Set("author", q.AuthorName)
	}
	if q.WorkTitle != "" {
		v.Set("work", q.WorkTitle)
	}
	if q.MinPages != nil {
		v.Set("min_pages", strconv.Itoa(*q.MinPages))
	}
	return prefix + "search:" + v.Encode()
}
