package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boxorder-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "abox"

var (
	redisClient *redis.Client
	redisPrefix = defaultPrefix
)

// NewClient 按配置创建 Redis 客户端，未启用时返回 nil
func NewClient(cfg *config.RedisConfig) *redis.Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// InitRedis 初始化全局客户端
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	redisClient = NewClient(cfg)
	if cfg != nil && strings.TrimSpace(cfg.Prefix) != "" {
		redisPrefix = strings.TrimSpace(cfg.Prefix)
	}
	return redisClient
}

// Enabled 缓存是否启用
func Enabled() bool {
	return redisClient != nil
}

// Client 全局客户端（未启用为 nil）
func Client() *redis.Client {
	return redisClient
}

// Prefix 全局 key 前缀
func Prefix() string {
	return redisPrefix
}

// Ping 检查连通性
func Ping(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Ping(ctx).Err()
}

// Close 关闭全局客户端
func Close() error {
	if !Enabled() {
		return nil
	}
	return redisClient.Close()
}

// GetJSON 读取 JSON 缓存
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return getJSON(ctx, redisClient, BuildKey(redisPrefix, key), dest)
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return setJSON(ctx, redisClient, BuildKey(redisPrefix, key), value, ttl)
}

// Del 删除缓存
func Del(ctx context.Context, keys ...string) error {
	if !Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, BuildKey(redisPrefix, key))
	}
	return redisClient.Del(ctx, full...).Err()
}

// BuildKey 拼接带前缀的 key
func BuildKey(prefix, key string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return prefix
	}
	return prefix + ":" + key
}

func getJSON(ctx context.Context, client *redis.Client, fullKey string, dest interface{}) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, client *redis.Client, fullKey string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, fullKey, payload, ttl).Err()
}
