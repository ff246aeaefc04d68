package admin

import "github.com/boxorder-next/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：店铺管理员、销售代理人与只读审计共用，权限由 casbin 控制。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
