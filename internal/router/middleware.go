package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/boxorder-next/internal/authz"
	"github.com/boxorder-next/internal/config"
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// AccountAuthenticator 校验 Bearer token 并加载账号
type AccountAuthenticator interface {
	Authenticate(tokenString string) (*models.Admin, error)
}

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "Accept-Language", requestIDHeader, handlershared.SessionHeader}
)

// corsPolicy 预先整理好的跨域配置
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	credentials bool
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}), credentials: cfg.AllowCredentials}
	if len(cfg.AllowedOrigins) == 0 {
		p.anyOrigin = true
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.anyOrigin = true
			continue
		}
		if origin != "" {
			p.origins[strings.ToLower(origin)] = struct{}{}
		}
	}
	return p
}

// allowOrigin 凭证模式下不能回 *，需回显具体 Origin
func (p corsPolicy) allowOrigin(origin string) string {
	if p.anyOrigin {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok && origin != "" {
		return origin
	}
	return ""
}

func joinOrDefault(values, fallback []string) string {
	if len(values) == 0 {
		values = fallback
	}
	return strings.Join(values, ", ")
}

// CORSMiddleware 跨域处理，暴露请求 ID 与分箱会话头给前端
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	methods := joinOrDefault(cfg.AllowedMethods, defaultCORSMethods)
	headers := joinOrDefault(cfg.AllowedHeaders, defaultCORSHeaders)
	expose := requestIDHeader + ", " + handlershared.SessionHeader

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowed := policy.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Expose-Headers", expose)
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 请求日志；业务码写在响应体里，这里按 HTTP 状态分级
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []interface{}{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if adminID, ok := c.Get(handlershared.ContextKeyAdminID); ok {
			fields = append(fields, "admin_id", adminID)
		}
		if session := handlershared.ReadSessionKey(c); session != "" {
			fields = append(fields, "box_session", session)
		}
		switch {
		case len(c.Errors) > 0 || c.Writer.Status() >= http.StatusInternalServerError:
			sugar.Errorw("http_request", append(fields, "errors", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusBadRequest:
			sugar.Warnw("http_request", fields...)
		default:
			sugar.Infow("http_request", fields...)
		}
	}
}

// JWTAuthMiddleware 后台接口鉴权，必须携带有效 token
func JWTAuthMiddleware(auth AccountAuthenticator) gin.HandlerFunc {
	return accountAuth(auth, false)
}

// OptionalJWTAuthMiddleware 下单表单鉴权：无 token 视为访客，token 无效则拒绝
func OptionalJWTAuthMiddleware(auth AccountAuthenticator) gin.HandlerFunc {
	return accountAuth(auth, true)
}

func accountAuth(auth AccountAuthenticator, guestAllowed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guestAllowed && strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		tokenString, key := bearerToken(c)
		if key != "" {
			abortUnauthorized(c, key)
			return
		}
		if authenticateInto(c, auth, tokenString) {
			c.Next()
		}
	}
}

// bearerToken 返回 token；失败时返回错误文案 key
func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "error.auth_header_missing"
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || scheme != "Bearer" || token == "" {
		return "", "error.auth_header_invalid"
	}
	return token, ""
}

func authenticateInto(c *gin.Context, auth AccountAuthenticator, tokenString string) bool {
	if auth == nil {
		abortUnauthorized(c, "error.token_invalid")
		return false
	}
	admin, err := auth.Authenticate(tokenString)
	switch {
	case errors.Is(err, service.ErrTokenRevoked):
		abortUnauthorized(c, "error.token_revoked")
		return false
	case err != nil || admin == nil:
		abortUnauthorized(c, "error.token_invalid")
		return false
	}
	c.Set(handlershared.ContextKeyAdminID, admin.ID)
	c.Set(handlershared.ContextKeyAdminName, admin.Name())
	c.Set(handlershared.ContextKeyAdminRole, admin.Role)
	c.Set(handlershared.ContextKeyAdminIsSuper, admin.IsSuper)
	return true
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// AdminRBACMiddleware 后台 RBAC 鉴权，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if c.GetBool(handlershared.ContextKeyAdminIsSuper) {
			c.Next()
			return
		}

		var adminID uint
		if value, ok := c.Get(handlershared.ContextKeyAdminID); ok {
			adminID, _ = value.(uint)
		}
		if adminID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
