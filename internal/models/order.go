package models

import (
	"time"

	"github.com/boxorder-next/internal/boxorder"

	"gorm.io/gorm"
)

// BillingAddress 订单账单信息（内嵌列）
type BillingAddress struct {
	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
	Email     string `gorm:"type:varchar(200);index" json:"email"`
	Phone     string `gorm:"type:varchar(50)" json:"phone"`
	Address1  string `gorm:"type:varchar(255)" json:"address_1"`
	Address2  string `gorm:"type:varchar(255)" json:"address_2"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	State     string `gorm:"type:varchar(100)" json:"state"`
	Postcode  string `gorm:"type:varchar(20)" json:"postcode"`
	Country   string `gorm:"type:varchar(2)" json:"country"`
}

// NewBillingAddress 由领域对象转换
func NewBillingAddress(b boxorder.BillingAddress) BillingAddress {
	return BillingAddress{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Address1:  b.Address1,
		Address2:  b.Address2,
		City:      b.City,
		State:     b.State,
		Postcode:  b.Postcode,
		Country:   b.Country,
	}
}

// ToDomain 转换为领域对象
func (b BillingAddress) ToDomain() boxorder.BillingAddress {
	return boxorder.BillingAddress{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Address1:  b.Address1,
		Address2:  b.Address2,
		City:      b.City,
		State:     b.State,
		Postcode:  b.Postcode,
		Country:   b.Country,
	}
}

// Order 订单表
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	Status           string         `gorm:"index;not null" json:"status"`                              // 订单状态
	Currency         string         `gorm:"type:varchar(10);not null" json:"currency"`                 // 币种
	TotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额
	CustomerID       uint           `gorm:"index;not null;default:0" json:"customer_id"`               // 客户ID（访客为 0）
	Billing          BillingAddress `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`           // 账单信息
	IsBoxOrder       bool           `gorm:"index;not null;default:false" json:"is_box_order"`          // 是否分箱订单
	BoxSet           BoxSetColumn   `gorm:"type:json" json:"box_set"`                                  // 分箱数据（权威）
	AgentID          uint           `gorm:"index;not null;default:0" json:"agent_id"`                  // 下单代理人
	AgentName        string         `gorm:"type:varchar(100)" json:"agent_name"`                       // 代理人名称快照
	CreatedFromAdmin bool           `gorm:"not null;default:false" json:"created_from_admin"`          // 是否后台直接创建
	PaymentStatus    string         `gorm:"type:varchar(50);index" json:"payment_status"`              // 付款状态
	CollectionMethod string         `gorm:"type:varchar(50);index" json:"collection_method"`           // 取货方式
	PickupDate       string         `gorm:"type:varchar(20)" json:"pickup_cod_date"`                   // 自取/货到付款日期
	PickupTime       string         `gorm:"type:varchar(20)" json:"pickup_cod_time"`                   // 自取/货到付款时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Notes []OrderNote `gorm:"foreignKey:OrderID" json:"notes,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderNote 订单备注
type OrderNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Author    string    `gorm:"type:varchar(100)" json:"author"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OrderNote) TableName() string {
	return "order_notes"
}

// OrderEditHistory 分箱编辑审计记录（只追加）
type OrderEditHistory struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	OrderID   uint       `gorm:"index;not null" json:"order_id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	UserName  string     `gorm:"type:varchar(100)" json:"user_name"`
	Changes   ChangeList `gorm:"type:json;not null" json:"changes"`
	CreatedAt time.Time  `gorm:"index" json:"timestamp"`
}

// TableName 指定表名
func (OrderEditHistory) TableName() string {
	return "order_edit_histories"
}

// ToDomain 转换为领域审计记录
func (h OrderEditHistory) ToDomain() boxorder.EditHistoryEntry {
	return boxorder.EditHistoryEntry{
		UserID:    h.UserID,
		UserName:  h.UserName,
		Timestamp: h.CreatedAt,
		Changes:   []boxorder.Change(h.Changes),
	}
}
