package service

import (
	"context"
	"strings"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/constants"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"

	"github.com/shopspring/decimal"
)

// BoxOrderListFilter 后台分箱订单列表过滤
type BoxOrderListFilter struct {
	Page             int
	PageSize         int
	Status           string
	PaymentStatus    string
	CollectionMethod string
	AgentID          uint
	OrderNo          string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	// IncludeRegular 为 true 时同时返回普通订单
	IncludeRegular bool
	// Sort 取 created_at / payment_status / collection_method；Order 取 asc / desc
	Sort  string
	Order string
}

// BoxOrderSummary 列表行
type BoxOrderSummary struct {
	ID               uint          `json:"id"`
	OrderNo          string        `json:"order_no"`
	Status           string        `json:"status"`
	IsBoxOrder       bool          `json:"is_box_order"`
	AgentID          uint          `json:"agent_id"`
	AgentName        string        `json:"agent_name"`
	BoxCount         int           `json:"box_count"`
	BoxLabels        []string      `json:"box_labels"`
	TotalQuantity    int           `json:"total_quantity"`
	TotalAmount      models.Money  `json:"total_amount"`
	Currency         string        `json:"currency"`
	PaymentStatus    *StatusOption `json:"payment_status"`
	CollectionMethod *StatusOption `json:"collection_method"`
	PickupDate       string        `json:"pickup_cod_date"`
	PickupTime       string        `json:"pickup_cod_time"`
	CreatedAt        time.Time     `json:"created_at"`
}

// PackingListView 装箱单
type PackingListView struct {
	OrderID       uint                  `json:"order_id"`
	OrderNo       string                `json:"order_no"`
	Template      string                `json:"template"`
	Currency      string                `json:"currency"`
	Billing       models.BillingAddress `json:"billing"`
	Boxes         []boxorder.PackingBox `json:"boxes"`
	TotalQuantity int                   `json:"total_quantity"`
	GrandTotal    models.Money          `json:"grand_total"`
}

// CollectingListView 拣货单
type CollectingListView struct {
	OrderID       uint                      `json:"order_id"`
	OrderNo       string                    `json:"order_no"`
	Lines         []boxorder.CollectingLine `json:"lines"`
	TotalQuantity int                       `json:"total_quantity"`
}

// GetOrder 获取订单详情
func (s *BoxOrderService) GetOrder(_ context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetEditHistory 编辑审计记录，最新在前
func (s *BoxOrderService) GetEditHistory(ctx context.Context, orderID uint) ([]boxorder.EditHistoryEntry, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.orderRepo.ListHistory(orderID)
	if err != nil {
		return nil, err
	}
	entries := make([]boxorder.EditHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToDomain())
	}
	return entries, nil
}

// GetPackingList 按箱输出装箱单
func (s *BoxOrderService) GetPackingList(ctx context.Context, orderID uint) (*PackingListView, error) {
	order, err := s.loadBoxOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, err
	}
	set := order.BoxSet.BoxSet
	boxes := boxorder.PackingList(set)
	grand := decimal.Zero
	for _, box := range boxes {
		grand = grand.Add(box.Total)
	}
	return &PackingListView{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		Template:      setting.PackingListTemplate,
		Currency:      order.Currency,
		Billing:       order.Billing,
		Boxes:         boxes,
		TotalQuantity: boxorder.TotalQuantity(set),
		GrandTotal:    models.NewMoney(grand),
	}, nil
}

// GetCollectingList 跨箱合并的拣货单
func (s *BoxOrderService) GetCollectingList(ctx context.Context, orderID uint) (*CollectingListView, error) {
	order, err := s.loadBoxOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := boxorder.CollectingList(ctx, order.BoxSet.BoxSet, s.catalog)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return &CollectingListView{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		Lines:         lines,
		TotalQuantity: total,
	}, nil
}

// ListBoxOrders 后台分箱订单列表
func (s *BoxOrderService) ListBoxOrders(_ context.Context, filter BoxOrderListFilter) ([]BoxOrderSummary, int64, error) {
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, 0, err
	}
	sortBy, sortAsc, err := normalizeListSort(filter.Sort, filter.Order)
	if err != nil {
		return nil, 0, err
	}
	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	orders, total, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:             page,
		PageSize:         pageSize,
		OnlyBoxOrders:    !filter.IncludeRegular,
		Status:           filter.Status,
		PaymentStatus:    filter.PaymentStatus,
		CollectionMethod: filter.CollectionMethod,
		AgentID:          filter.AgentID,
		OrderNo:          filter.OrderNo,
		CreatedFrom:      filter.CreatedFrom,
		CreatedTo:        filter.CreatedTo,
		SortBy:           sortBy,
		SortAsc:          sortAsc,
	})
	if err != nil {
		return nil, 0, err
	}
	rows := make([]BoxOrderSummary, 0, len(orders))
	for i := range orders {
		rows = append(rows, SummarizeBoxOrder(&orders[i], setting))
	}
	return rows, total, nil
}

// normalizeListSort 未指定方向时倒序
func normalizeListSort(field, direction string) (string, bool, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	direction = strings.ToLower(strings.TrimSpace(direction))
	if field != "" && !repository.IsOrderSortField(field) {
		return "", false, ErrInvalidListSort
	}
	switch direction {
	case "", "desc":
		return field, false, nil
	case "asc":
		return field, true, nil
	}
	return "", false, ErrInvalidListSort
}

func (s *BoxOrderService) loadBoxOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsBoxOrder {
		return nil, ErrNotBoxOrder
	}
	return order, nil
}

// SummarizeBoxOrder 订单列表行，付款状态与取货方式带配色
func SummarizeBoxOrder(order *models.Order, setting BoxOrderSetting) BoxOrderSummary {
	set := order.BoxSet.BoxSet
	labels := make([]string, 0, len(set.Boxes))
	for _, box := range set.Boxes {
		labels = append(labels, box.Label)
	}
	row := BoxOrderSummary{
		ID:            order.ID,
		OrderNo:       order.OrderNo,
		Status:        order.Status,
		IsBoxOrder:    order.IsBoxOrder,
		AgentID:       order.AgentID,
		AgentName:     order.AgentName,
		BoxCount:      len(set.Boxes),
		BoxLabels:     labels,
		TotalQuantity: boxorder.TotalQuantity(set),
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		PickupDate:    order.PickupDate,
		PickupTime:    order.PickupTime,
		CreatedAt:     order.CreatedAt,
	}
	row.PaymentStatus = lookupOption(setting.PaymentStatuses, order.PaymentStatus)
	row.CollectionMethod = lookupOption(setting.CollectionMethods, order.CollectionMethod)
	return row
}

// 已删除的选项仍按 slug 原样返回，使用默认配色
func lookupOption(options []StatusOption, slug string) *StatusOption {
	if slug == "" {
		return nil
	}
	if opt, ok := findOption(options, slug); ok {
		return &opt
	}
	return &StatusOption{Slug: slug, Label: slug, BgColor: defaultOptionBgColor, TextColor: defaultOptionTextColor}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
