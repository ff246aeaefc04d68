package repository

import (
	"errors"
	"time"

	"github.com/boxorder-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingBoxSetRepository 暂存分箱数据访问接口（Redis 不可用时的落库实现）
type PendingBoxSetRepository interface {
	Put(row *models.PendingBoxSet) error
	Get(sessionKey string, agentID uint, now time.Time) (*models.PendingBoxSet, error)
	Delete(sessionKey string, agentID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

// GormPendingBoxSetRepository GORM 实现
type GormPendingBoxSetRepository struct {
	db *gorm.DB
}

// NewPendingBoxSetRepository 创建暂存仓库
func NewPendingBoxSetRepository(db *gorm.DB) *GormPendingBoxSetRepository {
	return &GormPendingBoxSetRepository{db: db}
}

// Put 写入或覆盖 (会话, 代理人) 的暂存数据
func (r *GormPendingBoxSetRepository) Put(row *models.PendingBoxSet) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}, {Name: "agent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"box_set", "expires_at", "updated_at"}),
	}).Create(row).Error
}

// Get 读取未过期的暂存数据
func (r *GormPendingBoxSetRepository) Get(sessionKey string, agentID uint, now time.Time) (*models.PendingBoxSet, error) {
	var row models.PendingBoxSet
	err := r.db.Where("session_key = ? AND agent_id = ? AND expires_at > ?", sessionKey, agentID, now).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Delete 删除暂存数据
func (r *GormPendingBoxSetRepository) Delete(sessionKey string, agentID uint) error {
	return r.db.Where("session_key = ? AND agent_id = ?", sessionKey, agentID).Delete(&models.PendingBoxSet{}).Error
}

// DeleteExpired 清理过期数据，返回删除条数
func (r *GormPendingBoxSetRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.PendingBoxSet{})
	return result.RowsAffected, result.Error
}
