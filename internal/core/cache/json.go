package cache

import (
	"context"
	"encoding/json"
	"time"
)

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			// 不做负缓存：not found 直接透传给调用方
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

// JSONCache 按前缀 + key 缓存某一类实体
type JSONCache[T any] struct {
	c      *Cache
	prefix string
	ttl    time.Duration
}

func NewJSON[T any](c *Cache, prefix string, ttl time.Duration) *JSONCache[T] {
	return &JSONCache[T]{c: c, prefix: prefix, ttl: ttl}
}

func (j *JSONCache[T]) Get(ctx context.Context, key string, load func(context.Context) (*T, error)) (*T, error) {
	return GetOrLoadJSON(j.c, ctx, j.prefix+key, j.ttl, load)
}

func (j *JSONCache[T]) Invalidate(ctx context.Context, key string) error {
	return j.c.Delete(ctx, j.prefix+key)
}
