package repository

import (
	"errors"
	"strings"

	"github.com/boxorder-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem, notes []models.OrderNote) error
	GetByID(id uint) (*models.Order, error)
	GetForUpdate(id uint) (*models.Order, error)
	ReplaceBoxSet(order *models.Order, items []models.OrderItem) error
	AddNote(note *models.OrderNote) error
	AppendHistory(entry *models.OrderEditHistory) error
	ListHistory(orderID uint) ([]models.OrderEditHistory, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 创建订单、订单行与备注
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem, notes []models.OrderNote) error {
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	for i := range notes {
		notes[i].OrderID = order.ID
	}
	if len(notes) > 0 {
		if err := r.db.Create(&notes).Error; err != nil {
			return err
		}
	}
	order.Items = items
	order.Notes = notes
	return nil
}

// GetByID 获取订单（含订单行与备注）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetForUpdate 加行锁读取订单（sqlite 忽略锁子句）
func (r *GormOrderRepository) GetForUpdate(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db
	if r.db.Dialector != nil && r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ReplaceBoxSet 替换分箱数据并全量重建订单行
func (r *GormOrderRepository) ReplaceBoxSet(order *models.Order, items []models.OrderItem) error {
	if order == nil || order.ID == 0 {
		return errors.New("order is required")
	}
	if err := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"box_set":      order.BoxSet,
		"total_amount": order.TotalAmount,
		"is_box_order": true,
	}).Error; err != nil {
		return err
	}
	if err := r.db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// AddNote 添加订单备注
func (r *GormOrderRepository) AddNote(note *models.OrderNote) error {
	if note == nil || strings.TrimSpace(note.Content) == "" {
		return nil
	}
	return r.db.Create(note).Error
}

// AppendHistory 追加编辑审计记录
func (r *GormOrderRepository) AppendHistory(entry *models.OrderEditHistory) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}

// ListHistory 按时间倒序返回审计记录
func (r *GormOrderRepository) ListHistory(orderID uint) ([]models.OrderEditHistory, error) {
	rows := make([]models.OrderEditHistory, 0)
	if err := r.db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.OnlyBoxOrders {
		query = query.Where("is_box_order = ?", true)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CollectionMethod != "" {
		query = query.Where("collection_method = ?", filter.CollectionMethod)
	}
	if filter.AgentID != 0 {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", strings.TrimSpace(filter.OrderNo))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0)
	query = applyPagination(query.Order(orderListOrder(filter)), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// orderListOrder 排序字段相同时按 id 倒序，分页结果稳定
func orderListOrder(filter OrderListFilter) string {
	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		return "id DESC"
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}
	return column + " " + direction + ", id DESC"
}

// UpdateFields 更新订单字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
