package models

import "time"

// CartItem 会话购物车项（代理人提交分箱后写入）
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                  // 主键
	SessionKey string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_session_line" json:"-"` // 会话 key
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_cart_session_line" json:"product_id"`          // 商品ID
	VariantID  uint      `gorm:"not null;default:0;uniqueIndex:idx_cart_session_line" json:"variation_id"`
	Title      string    `gorm:"type:varchar(255)" json:"title"`                          // 标题
	Quantity   int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// PendingBoxSet 提交到购物车后、结账完成前暂存的分箱数据
type PendingBoxSet struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	SessionKey string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_pending_session_agent" json:"session_key"`
	AgentID    uint         `gorm:"not null;default:0;uniqueIndex:idx_pending_session_agent" json:"agent_id"`
	BoxSet     BoxSetColumn `gorm:"type:json;not null" json:"box_set"`
	ExpiresAt  time.Time    `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// TableName 指定表名
func (PendingBoxSet) TableName() string {
	return "pending_box_sets"
}
