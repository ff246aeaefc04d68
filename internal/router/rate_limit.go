package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// windowCount 对 key 计数，首次命中时设置窗口过期；返回当前计数与剩余秒数
func windowCount(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, int, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, int(window.Seconds()), nil
	}
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// 上次 EXPIRE 丢失，补设窗口避免 key 永不过期
		_ = client.Expire(ctx, key, window).Err()
		ttl = window
	}
	return count, int(ttl.Seconds()), nil
}

// RateLimitMiddleware 有 Redis 时按固定窗口计数，否则退化为进程内令牌桶
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if !rule.enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	if client == nil {
		return LocalRateLimitMiddleware(rule, keyFunc)
	}
	window := time.Duration(rule.WindowSeconds) * time.Second
	return func(c *gin.Context) {
		key := resolveRateLimitKey(c, rule, keyFunc)
		count, remaining, err := windowCount(c.Request.Context(), client, key, window)
		if err != nil {
			logger.Warnw("rate_limit_redis_failed", "key", key, "error", err)
			abortRateLimitUnavailable(c)
			return
		}
		if count > int64(rule.MaxRequests) {
			logger.Infow("rate_limit_rejected", "key", key, "count", count)
			abortRateLimited(c, remaining)
			return
		}
		c.Next()
	}
}

// LocalRateLimiter 按 key 维护的进程内令牌桶
type LocalRateLimiter struct {
	limiters sync.Map
	limit    rate.Limit
	burst    int
}

// NewLocalRateLimiter 窗口内最多 maxRequests 次，折算为平均速率与突发量
func NewLocalRateLimiter(rule RateLimitRule) *LocalRateLimiter {
	window := time.Duration(rule.WindowSeconds) * time.Second
	return &LocalRateLimiter{
		limit: rate.Every(window / time.Duration(rule.MaxRequests)),
		burst: rule.MaxRequests,
	}
}

// Allow 判断 key 是否放行
func (l *LocalRateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

func (l *LocalRateLimiter) limiter(key string) *rate.Limiter {
	if existing, ok := l.limiters.Load(key); ok {
		return existing.(*rate.Limiter)
	}
	created, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.limit, l.burst))
	return created.(*rate.Limiter)
}

// LocalRateLimitMiddleware 进程内限流（多实例部署时各自计数）
func LocalRateLimitMiddleware(rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if !rule.enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewLocalRateLimiter(rule)
	return func(c *gin.Context) {
		key := resolveRateLimitKey(c, rule, keyFunc)
		if !limiter.Allow(key) {
			logger.Warnw("rate_limit_local_rejected", "key", key, "client_ip", c.ClientIP())
			abortRateLimited(c, rule.WindowSeconds)
			return
		}
		c.Next()
	}
}

func resolveRateLimitKey(c *gin.Context, rule RateLimitRule, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if rule.Prefix != "" {
		key = fmt.Sprintf("%s:%s", rule.Prefix, key)
	}
	return key
}

func abortRateLimited(c *gin.Context, waitSeconds int) {
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.rate_limited", waitSeconds)
	response.Error(c, response.CodeTooManyRequests, msg)
	c.Abort()
}

func abortRateLimitUnavailable(c *gin.Context) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
	response.Error(c, response.CodeInternal, msg)
	c.Abort()
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

// KeyBySessionOrIP 下单表单按会话限流，无会话时按 IP
func KeyBySessionOrIP(c *gin.Context) string {
	if session := handlershared.ReadSessionKey(c); session != "" {
		return "s|" + session
	}
	return c.ClientIP()
}

// readJSONField 读取 JSON 请求体中的字符串字段，读完后回填请求体
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if raw, ok := payload[field]; !ok || json.Unmarshal(raw, &text) != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
