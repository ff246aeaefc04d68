package models

import (
	"time"

	"gorm.io/gorm"
)

// 库存状态
const (
	StockStatusInStock    = "instock"
	StockStatusOutOfStock = "outofstock"
)

// Product 商品表（只读目录）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                                // 唯一标识
	Name        string         `gorm:"type:varchar(255);not null;index" json:"name"`                    // 商品名称
	SKU         string         `gorm:"type:varchar(100);index" json:"sku"`                              // 货号
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`              // 价格
	IsVariable  bool           `gorm:"not null;default:false" json:"is_variable"`                       // 是否多规格商品
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"`                    // 是否上架
	StockStatus string         `gorm:"type:varchar(20);not null;default:'instock'" json:"stock_status"` // 库存状态
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                               // 排序
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// Purchasable 是否可购买
func (p Product) Purchasable() bool {
	return p.IsActive && p.StockStatus != StockStatusOutOfStock
}

// ProductVariant 商品规格
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	ProductID   uint           `gorm:"not null;index" json:"product_id"`
	Name        string         `gorm:"type:varchar(255)" json:"name"`
	SKU         string         `gorm:"type:varchar(100);index" json:"sku"`
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Attributes  JSON           `gorm:"type:json" json:"attributes"` // attribute -> term slug
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"`
	StockStatus string         `gorm:"type:varchar(20);not null;default:'instock'" json:"stock_status"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// Purchasable 是否可购买
func (v ProductVariant) Purchasable() bool {
	return v.IsActive && v.StockStatus != StockStatusOutOfStock
}

// AttributeTerm 规格属性词条（如 pa_color/red -> Red）
type AttributeTerm struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Attribute string `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_term" json:"attribute"`
	Slug      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_term" json:"slug"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
}

// TableName 指定表名
func (AttributeTerm) TableName() string {
	return "attribute_terms"
}
