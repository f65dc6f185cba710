package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache 读穿缓存；nil 接收者直接回源，便于未配置 redis 时复用同一调用路径
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb}
}

// GetOrLoad 数据按版本存放：key@<ver>；Invalidate 只递增版本号，
// 失效前开始的回源写回旧版本，读不到
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil || c.RDB == nil {
		return load(ctx)
	}
	ver, err := c.RDB.Get(ctx, verKey(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		ver = "0"
	case err != nil:
		return load(ctx)
	}
	dataKey := versioned(key, ver)

	// 先读缓存
	if b, err := c.RDB.Get(ctx, dataKey).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(dataKey, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, dataKey, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 写操作提交后调用
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.RDB == nil || len(keys) == 0 {
		return
	}
	pipe := c.RDB.Pipeline()
	for _, k := range keys {
		pipe.Incr(ctx, verKey(k))
	}
	_, _ = pipe.Exec(ctx)
}

func verKey(key string) string { return key + ":ver" }

func versioned(key, ver string) string { return key + "@" + ver }
