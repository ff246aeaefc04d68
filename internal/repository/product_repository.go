package repository

import (
	"errors"

	"github.com/boxorder-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品目录数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetVariantByID(id uint) (*models.ProductVariant, error)
	GetTerm(attribute, slug string) (*models.AttributeTerm, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	Create(product *models.Product) error
	CreateVariant(variant *models.ProductVariant) error
	UpsertTerm(term *models.AttributeTerm) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID 根据 ID 获取商品（软删除商品视为不存在）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetVariantByID 根据 ID 获取规格
func (r *GormProductRepository) GetVariantByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// GetTerm 查询属性词条
func (r *GormProductRepository) GetTerm(attribute, slug string) (*models.AttributeTerm, error) {
	var term models.AttributeTerm
	if err := r.db.Where("attribute = ? AND slug = ?", attribute, slug).First(&term).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

// List 搜索商品（含规格）
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0)
	query = applyPagination(query.Order("sort_order DESC, name ASC"), filter.Page, filter.PageSize)
	err := query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order DESC, id ASC")
	}).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// CreateVariant 创建规格
func (r *GormProductRepository) CreateVariant(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// UpsertTerm 创建或更新属性词条
func (r *GormProductRepository) UpsertTerm(term *models.AttributeTerm) error {
	existing, err := r.GetTerm(term.Attribute, term.Slug)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(term).Error
	}
	term.ID = existing.ID
	return r.db.Model(existing).Update("name", term.Name).Error
}
