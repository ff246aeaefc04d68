package service

import (
	"context"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"
)

// DBHoldingStore Redis 未启用时的数据库暂存区，过期行由定时任务清理
type DBHoldingStore struct {
	repo repository.PendingBoxSetRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewDBHoldingStore 创建数据库暂存区
func NewDBHoldingStore(repo repository.PendingBoxSetRepository, ttl time.Duration) *DBHoldingStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DBHoldingStore{repo: repo, ttl: ttl, now: time.Now}
}

var _ boxorder.HoldingStore = (*DBHoldingStore)(nil)

// Put 写入或覆盖
func (s *DBHoldingStore) Put(_ context.Context, key boxorder.HoldingKey, set boxorder.BoxSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return s.repo.Put(&models.PendingBoxSet{
		SessionKey: key.SessionKey,
		AgentID:    key.AgentID,
		BoxSet:     models.BoxSetColumn{BoxSet: set.Clone()},
		ExpiresAt:  s.now().Add(s.ttl),
	})
}

// Get 读取未过期的暂存
func (s *DBHoldingStore) Get(_ context.Context, key boxorder.HoldingKey) (*boxorder.BoxSet, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.Get(key.SessionKey, key.AgentID, s.now())
	if err != nil || row == nil {
		return nil, err
	}
	set := row.BoxSet.BoxSet.Clone()
	return &set, nil
}

// Clear 清除
func (s *DBHoldingStore) Clear(_ context.Context, key boxorder.HoldingKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return s.repo.Delete(key.SessionKey, key.AgentID)
}

// SweepExpired 清理过期行
func (s *DBHoldingStore) SweepExpired(_ context.Context) (int64, error) {
	return s.repo.DeleteExpired(s.now())
}
