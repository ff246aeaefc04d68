package boxorder

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawItem 表单提交的原始商品行
// ProductName / Price 仅作为展示兜底，价格计算一律以目录为准
type RawItem struct {
	ProductID   uint   `json:"product_id"`
	VariantID   uint   `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
}

// RawBox 表单提交的原始箱子
type RawBox struct {
	Label string    `json:"label"`
	Items []RawItem `json:"items"`
}

// BoxItem 校验后的箱内商品（价格已快照）
type BoxItem struct {
	ProductID          uint            `json:"product_id"`
	VariantID          uint            `json:"variation_id,omitempty"`
	ProductName        string          `json:"product_name"`
	VariantDescription string          `json:"variation_attrs,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"price"`
}

// Key 返回聚合键
func (i BoxItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// DisplayName 商品展示名（含规格描述）
func (i BoxItem) DisplayName() string {
	if i.VariantDescription == "" {
		return i.ProductName
	}
	return i.ProductName + " - " + i.VariantDescription
}

// Subtotal 行小计
func (i BoxItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Box 一个带标签的箱子
type Box struct {
	Label string    `json:"label"`
	Items []BoxItem `json:"items"`
}

// TotalQuantity 箱内商品总数
func (b Box) TotalQuantity() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// Total 箱内金额合计
func (b Box) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// BoxSet 一个订单的全部箱子
type BoxSet struct {
	Boxes []Box `json:"boxes"`
}

// IsEmpty 是否没有箱子
func (s *BoxSet) IsEmpty() bool {
	return s == nil || len(s.Boxes) == 0
}

// Clone 深拷贝，避免调用方修改共享切片
func (s BoxSet) Clone() BoxSet {
	out := BoxSet{Boxes: make([]Box, len(s.Boxes))}
	for i, box := range s.Boxes {
		items := make([]BoxItem, len(box.Items))
		copy(items, box.Items)
		out.Boxes[i] = Box{Label: box.Label, Items: items}
	}
	return out
}

// LineKey 聚合键：(商品 ID, 规格 ID 或 0)
type LineKey struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variation_id"`
}

// Limits 校验所需的数量限制，由调用方显式传入
type Limits struct {
	MaxBoxes       int
	MaxItemsPerBox int
}

// DefaultLimits 默认限制
func DefaultLimits() Limits {
	return Limits{MaxBoxes: 10, MaxItemsPerBox: 20}
}

// Actor 执行编辑的用户
type Actor struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
}

// EditHistoryEntry 一次编辑的审计记录
type EditHistoryEntry struct {
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
	Changes   []Change  `json:"changes"`
}

// NewHistoryEntry 构造审计记录
func NewHistoryEntry(actor Actor, changes []Change, now time.Time) EditHistoryEntry {
	copied := make([]Change, len(changes))
	copy(copied, changes)
	return EditHistoryEntry{
		UserID:    actor.UserID,
		UserName:  actor.UserName,
		Timestamp: now,
		Changes:   copied,
	}
}
