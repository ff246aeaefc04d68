package cache

import (
	"context"
	"time"

	"github.com/boxorder-next/internal/boxorder"

	"github.com/redis/go-redis/v9"
)

const holdingNamespace = "holding"

// RedisHoldingStore 基于 Redis 的分箱暂存区，依赖 key TTL 自动过期
type RedisHoldingStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisHoldingStore 创建暂存区
func NewRedisHoldingStore(client *redis.Client, prefix string, ttl time.Duration) *RedisHoldingStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisHoldingStore{client: client, prefix: prefix, ttl: ttl}
}

// Put 写入（覆盖同一会话与代理人的旧数据）
func (s *RedisHoldingStore) Put(ctx context.Context, key boxorder.HoldingKey, set boxorder.BoxSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return setJSON(ctx, s.client, s.key(key), set, s.ttl)
}

// Get 读取
func (s *RedisHoldingStore) Get(ctx context.Context, key boxorder.HoldingKey) (*boxorder.BoxSet, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var set boxorder.BoxSet
	hit, err := getJSON(ctx, s.client, s.key(key), &set)
	if err != nil || !hit {
		return nil, err
	}
	return &set, nil
}

// Clear 结账完成后清除
func (s *RedisHoldingStore) Clear(ctx context.Context, key boxorder.HoldingKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisHoldingStore) key(key boxorder.HoldingKey) string {
	return BuildKey(s.prefix, holdingNamespace+":"+key.String())
}
