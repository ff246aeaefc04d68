package repository

import (
	"errors"
	"time"

	"github.com/boxorder-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 会话购物车数据访问接口
type CartRepository interface {
	ListBySession(sessionKey string) ([]models.CartItem, error)
	AddQuantity(item *models.CartItem) error
	ClearSession(sessionKey string) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListBySession 获取会话购物车
func (r *GormCartRepository) ListBySession(sessionKey string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.db.Where("session_key = ?", sessionKey).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddQuantity 同一 (商品, 规格) 已存在时累加数量
func (r *GormCartRepository) AddQuantity(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("session_key = ? AND product_id = ? AND variant_id = ?", item.SessionKey, item.ProductID, item.VariantID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity":   existing.Quantity + item.Quantity,
		"updated_at": time.Now(),
	}).Error
}

// ClearSession 清空会话购物车
func (r *GormCartRepository) ClearSession(sessionKey string) error {
	return r.db.Where("session_key = ?", sessionKey).Delete(&models.CartItem{}).Error
}
