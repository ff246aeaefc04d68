package admin

import (
	"errors"
	"time"

	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string      `json:"token"`
	User      AccountView `json:"user"`
	ExpiresAt string      `json:"expires_at"`
}

// AccountView 当前账号信息
type AccountView struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsSuper     bool   `json:"is_super"`
}

// AdminLogin 后台登录（管理员与销售代理人共用）
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	// 角色以账号表为准，每次登录同步到 casbin
	if h.AuthzService != nil {
		if err := h.AuthzService.SyncAdminRole(admin.ID, admin.Role); err != nil {
			requestLog(c).Warnw("admin_login_sync_role_failed", "admin_id", admin.ID, "role", admin.Role, "error", err)
		}
	}

	response.Success(c, LoginResponse{
		Token: token,
		User: AccountView{
			ID:          admin.ID,
			Username:    admin.Username,
			DisplayName: admin.Name(),
			Role:        admin.Role,
			IsSuper:     admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetAdminMe 当前账号与权限快照
func (h *Handler) GetAdminMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"user": AccountView{
			ID:          admin.ID,
			Username:    admin.Username,
			DisplayName: admin.Name(),
			Role:        admin.Role,
			IsSuper:     admin.IsSuper,
		},
		"roles":    roles,
		"policies": policies,
	})
}
