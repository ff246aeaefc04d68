package repository

import "time"

// OrderListFilter 后台订单列表过滤条件
type OrderListFilter struct {
	Page             int
	PageSize         int
	OnlyBoxOrders    bool
	Status           string
	PaymentStatus    string
	CollectionMethod string
	AgentID          uint
	OrderNo          string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	// SortBy 为空或不在白名单内时按 id 倒序
	SortBy  string
	SortAsc bool
}

// 后台订单列表可排序字段
const (
	OrderSortCreatedAt        = "created_at"
	OrderSortPaymentStatus    = "payment_status"
	OrderSortCollectionMethod = "collection_method"
)

var orderSortColumns = map[string]string{
	OrderSortCreatedAt:        "created_at",
	OrderSortPaymentStatus:    "payment_status",
	OrderSortCollectionMethod: "collection_method",
}

// IsOrderSortField 是否为允许的排序字段
func IsOrderSortField(field string) bool {
	_, ok := orderSortColumns[field]
	return ok
}

// ProductListFilter 商品搜索过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// CustomerListFilter 客户搜索过滤条件
type CustomerListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}
