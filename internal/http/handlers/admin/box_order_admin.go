package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateBoxOrderRequest 后台创建分箱订单
type CreateBoxOrderRequest struct {
	Boxes       []boxorder.RawBox            `json:"boxes" binding:"required"`
	CustomerID  uint                         `json:"customer_id"`
	Billing     *boxorder.BillingAddress     `json:"billing"`
	Status      string                       `json:"status"`
	Fulfillment service.FulfillmentMetaInput `json:"fulfillment"`
}

// UpdateBoxesRequest 编辑分箱
type UpdateBoxesRequest struct {
	Boxes []boxorder.RawBox `json:"boxes" binding:"required"`
}

// BoxOrderDetail 分箱订单详情
type BoxOrderDetail struct {
	*models.Order
	Summary   service.BoxOrderSummary `json:"summary"`
	Breakdown string                  `json:"breakdown"`
}

// ListBoxOrders 分箱订单列表
func (h *Handler) ListBoxOrders(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var agentID uint
	if raw := strings.TrimSpace(c.Query("agent_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			agentID = uint(parsed)
		}
	}
	includeRegular, _ := strconv.ParseBool(c.DefaultQuery("include_regular", "false"))

	rows, total, err := h.BoxOrderService.ListBoxOrders(c.Request.Context(), service.BoxOrderListFilter{
		Page:             page,
		PageSize:         pageSize,
		Status:           strings.TrimSpace(c.Query("status")),
		PaymentStatus:    strings.TrimSpace(c.Query("payment_status")),
		CollectionMethod: strings.TrimSpace(c.Query("collection_method")),
		AgentID:          agentID,
		OrderNo:          strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:      createdFrom,
		CreatedTo:        createdTo,
		IncludeRegular:   includeRegular,
		Sort:             c.Query("sort"),
		Order:            c.Query("order"),
	})
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.SuccessWithPage(c, rows, handlershared.BuildPagination(page, pageSize, total))
}

// CreateBoxOrder 后台直接创建分箱订单
func (h *Handler) CreateBoxOrder(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	var req CreateBoxOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, draft, err := h.BoxOrderService.ValidateAndCreate(c.Request.Context(), service.CreateBoxOrderInput{
		Agent:       account.AgentRef(),
		Boxes:       req.Boxes,
		CustomerID:  req.CustomerID,
		Guest:       req.Billing,
		Status:      req.Status,
		Fulfillment: req.Fulfillment,
	})
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	requestLog(c).Infow("admin_box_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"admin_id", account.ID,
		"boxes", len(draft.BoxSet.Boxes),
	)
	response.Success(c, order)
}

// GetBoxOrder 分箱订单详情
func (h *Handler) GetBoxOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.BoxOrderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	setting, err := h.SettingService.GetBoxOrderSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, BoxOrderDetail{
		Order:     order,
		Summary:   service.SummarizeBoxOrder(order, setting),
		Breakdown: boxorder.PlainTextBreakdown(order.BoxSet.BoxSet, order.Currency),
	})
}

// UpdateBoxOrderBoxes 编辑分箱并记录审计
func (h *Handler) UpdateBoxOrderBoxes(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req UpdateBoxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.BoxOrderService.SaveEdit(c.Request.Context(), service.SaveEditInput{
		OrderID: orderID,
		Boxes:   req.Boxes,
		Actor:   account.Actor(),
	})
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.Success(c, result)
}

// GetBoxOrderHistory 编辑审计记录
func (h *Handler) GetBoxOrderHistory(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	entries, err := h.BoxOrderService.GetEditHistory(c.Request.Context(), orderID)
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.Success(c, entries)
}

// GetBoxOrderPackingList 装箱单
func (h *Handler) GetBoxOrderPackingList(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	view, err := h.BoxOrderService.GetPackingList(c.Request.Context(), orderID)
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.Success(c, view)
}

// GetBoxOrderCollectingList 拣货单
func (h *Handler) GetBoxOrderCollectingList(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	view, err := h.BoxOrderService.GetCollectingList(c.Request.Context(), orderID)
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateBoxOrderFulfillment 更新付款状态与取货信息
func (h *Handler) UpdateBoxOrderFulfillment(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req service.FulfillmentMetaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.BoxOrderService.UpdateFulfillmentMeta(c.Request.Context(), orderID, req, account.Actor())
	if err != nil {
		respondBoxOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// parseTimeNullable 支持 RFC3339 与 YYYY-MM-DD
func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
