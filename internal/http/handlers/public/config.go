package public

import (
	"github.com/boxorder-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetConfig 下单表单所需的公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	setting, err := h.SettingService.GetBoxOrderSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"site_name":         h.Config.App.Name,
		"currency":          h.BoxOrderService.Currency(),
		"max_boxes":         setting.MaxBoxes,
		"max_items_per_box": setting.MaxItemsPerBox,
		"guest_mode":        setting.GuestMode,
		"captcha_required":  setting.GuestMode,
	})
}
