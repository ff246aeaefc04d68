package public

import "github.com/boxorder-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：下单表单既可由登录代理人使用，也可在访客模式下匿名使用。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
