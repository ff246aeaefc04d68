package admin

import (
	"errors"

	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBoxOrderSetting 获取分箱订单设置
func (h *Handler) GetBoxOrderSetting(c *gin.Context) {
	setting, err := h.SettingService.GetBoxOrderSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// UpdateBoxOrderSetting 局部更新分箱订单设置，未传字段保持不变
func (h *Handler) UpdateBoxOrderSetting(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.SettingService.UpdateBoxOrderSetting(patch)
	if err != nil {
		if errors.Is(err, service.ErrSettingInvalid) {
			respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if adminID, ok := c.Get("admin_id"); ok {
		requestLog(c).Infow("admin_box_order_setting_updated", "admin_id", adminID, "keys", len(patch))
	}
	response.Success(c, setting)
}
