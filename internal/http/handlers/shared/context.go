package shared

import (
	"net/http"
	"strings"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 鉴权中间件写入的上下文 key
const (
	ContextKeyAdminID      = "admin_id"
	ContextKeyAdminName    = "admin_name"
	ContextKeyAdminRole    = "admin_role"
	ContextKeyAdminIsSuper = "admin_is_super"
)

// 下单会话标识：请求头优先，其次 Cookie
const (
	SessionHeader    = "X-Box-Session"
	SessionCookie    = "box_session"
	sessionCookieAge = 7 * 24 * 3600
)

// Account 当前请求的后台账号（访客时 ID 为 0）
type Account struct {
	ID      uint
	Name    string
	Role    string
	IsSuper bool
}

// IsGuest 是否访客
func (a Account) IsGuest() bool {
	return a.ID == 0
}

// AgentRef 转换为下单代理人
func (a Account) AgentRef() boxorder.AgentRef {
	return boxorder.AgentRef{ID: a.ID, Name: a.Name}
}

// Actor 转换为编辑人
func (a Account) Actor() boxorder.Actor {
	return boxorder.Actor{UserID: a.ID, UserName: a.Name}
}

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// CurrentAccount 读取可选登录态，未登录返回访客
func CurrentAccount(c *gin.Context) Account {
	account := Account{}
	if value, ok := c.Get(ContextKeyAdminID); ok {
		if id, ok := value.(uint); ok {
			account.ID = id
		}
	}
	if account.ID == 0 {
		return Account{}
	}
	account.Name = c.GetString(ContextKeyAdminName)
	account.Role = c.GetString(ContextKeyAdminRole)
	account.IsSuper = c.GetBool(ContextKeyAdminIsSuper)
	return account
}

// ReadSessionKey 读取下单会话标识
func ReadSessionKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(SessionHeader)); key != "" {
		return key
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// EnsureSessionKey 读取会话标识，不存在时生成新会话并回写
func EnsureSessionKey(c *gin.Context) string {
	key := ReadSessionKey(c)
	if key == "" {
		key = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, key, sessionCookieAge, "/", "", false, true)
	}
	c.Header(SessionHeader, key)
	return key
}
