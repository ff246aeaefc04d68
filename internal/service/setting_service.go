package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/constants"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"
)

const settingCacheTTL = 15 * time.Second

// SettingService 设置业务服务
type SettingService struct {
	repo     repository.SettingRepository
	defaults config.BoxConfig

	mu       sync.RWMutex
	cached   BoxOrderSetting
	cachedAt time.Time
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository, defaults config.BoxConfig) *SettingService {
	return &SettingService{repo: repo, defaults: defaults}
}

// GetByKey 获取原始设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// GetBoxOrderSetting 读取分箱设置（合并配置默认值，短期缓存）
func (s *SettingService) GetBoxOrderSetting() (BoxOrderSetting, error) {
	if s == nil {
		return BoxOrderDefaultSetting(config.BoxConfig{}), nil
	}
	now := time.Now()
	s.mu.RLock()
	if !s.cachedAt.IsZero() && now.Sub(s.cachedAt) <= settingCacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	fallback := BoxOrderDefaultSetting(s.defaults)
	raw, err := s.GetByKey(constants.SettingKeyBoxOrder)
	if err != nil {
		return fallback, err
	}
	setting := boxOrderSettingFromJSON(raw, fallback)

	s.mu.Lock()
	s.cached = setting
	s.cachedAt = now
	s.mu.Unlock()
	return setting, nil
}

// UpdateBoxOrderSetting 合并更新分箱设置，未提交的字段保持原值
func (s *SettingService) UpdateBoxOrderSetting(patch map[string]interface{}) (BoxOrderSetting, error) {
	current, err := s.GetBoxOrderSetting()
	if err != nil {
		return BoxOrderSetting{}, err
	}
	if err := validateSettingPatch(patch); err != nil {
		return BoxOrderSetting{}, err
	}
	next := boxOrderSettingFromJSON(models.JSON(patch), current)
	if _, err := s.repo.Upsert(constants.SettingKeyBoxOrder, BoxOrderSettingToMap(next)); err != nil {
		return BoxOrderSetting{}, err
	}
	s.InvalidateCache()
	return next, nil
}

// InvalidateCache 失效本地缓存
func (s *SettingService) InvalidateCache() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.cachedAt = time.Time{}
	s.mu.Unlock()
}

// 列表字段必须是数组，否则整个 patch 拒绝
func validateSettingPatch(patch map[string]interface{}) error {
	for _, key := range []string{"allowed_roles", "payment_statuses", "collection_methods"} {
		raw, ok := patch[key]
		if !ok || raw == nil {
			continue
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return ErrSettingInvalid
		}
		var list []json.RawMessage
		if err := json.Unmarshal(payload, &list); err != nil {
			return ErrSettingInvalid
		}
	}
	return nil
}
