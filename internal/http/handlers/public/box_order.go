package public

import (
	"errors"
	"io"

	"github.com/boxorder-next/internal/boxorder"
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitBoxOrderRequest 分箱表单提交
type SubmitBoxOrderRequest struct {
	Boxes   []boxorder.RawBox                   `json:"boxes" binding:"required"`
	Captcha handlershared.CaptchaPayloadRequest `json:"captcha"`
}

// SubmitBoxOrderResponse 提交结果，前端凭 session_key 结账
type SubmitBoxOrderResponse struct {
	SessionKey string `json:"session_key"`
	*service.CartSubmission
}

// CheckoutBoxOrderRequest 结账请求；已有客户传 customer_id，访客填写账单信息
type CheckoutBoxOrderRequest struct {
	CustomerID uint                     `json:"customer_id"`
	Billing    *boxorder.BillingAddress `json:"billing"`
}

// CheckoutBoxOrderResponse 结账结果
type CheckoutBoxOrderResponse struct {
	OrderID  uint         `json:"order_id"`
	OrderNo  string       `json:"order_no"`
	Status   string       `json:"status"`
	Total    models.Money `json:"total"`
	Currency string       `json:"currency"`
}

// SubmitBoxOrder 校验分箱并写入会话购物车
func (h *Handler) SubmitBoxOrder(c *gin.Context) {
	var req SubmitBoxOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	account := handlershared.CurrentAccount(c)

	if account.IsGuest() {
		setting, err := h.SettingService.GetBoxOrderSetting()
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		if !setting.GuestMode {
			respondBoxOrderFormError(c, service.ErrGuestModeDisabled)
			return
		}
		if err := h.CaptchaService.Verify(req.Captcha.ToServicePayload()); err != nil {
			respondBoxOrderFormError(c, err)
			return
		}
	}

	sessionKey := handlershared.EnsureSessionKey(c)
	submission, err := h.BoxOrderService.SubmitToCart(c.Request.Context(), service.SubmitToCartInput{
		SessionKey: sessionKey,
		Agent:      account.AgentRef(),
		AgentRole:  account.Role,
		IsSuper:    account.IsSuper,
		IsGuest:    account.IsGuest(),
		Boxes:      req.Boxes,
	})
	if err != nil {
		respondBoxOrderFormError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("box_order_form_submitted",
		"agent_id", account.ID,
		"boxes", len(submission.BoxSet.Boxes),
		"total_quantity", submission.TotalQuantity,
	)
	response.Success(c, SubmitBoxOrderResponse{SessionKey: sessionKey, CartSubmission: submission})
}

// CheckoutBoxOrder 以暂存的分箱生成订单
func (h *Handler) CheckoutBoxOrder(c *gin.Context) {
	var req CheckoutBoxOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	account := handlershared.CurrentAccount(c)

	order, err := h.BoxOrderService.CompleteCheckout(c.Request.Context(), service.CheckoutInput{
		SessionKey: handlershared.ReadSessionKey(c),
		Agent:      account.AgentRef(),
		CustomerID: req.CustomerID,
		Billing:    req.Billing,
	})
	if err != nil {
		respondBoxOrderFormError(c, err)
		return
	}
	response.Success(c, CheckoutBoxOrderResponse{
		OrderID:  order.ID,
		OrderNo:  order.OrderNo,
		Status:   order.Status,
		Total:    order.TotalAmount,
		Currency: order.Currency,
	})
}
