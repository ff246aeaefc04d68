package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/boxorder-next/internal/logger"

	"github.com/robfig/cron/v3"
)

const defaultSweepSpec = "0 */10 * * * *"

// ExpiredHoldingPurger 可清理过期暂存的存储
type ExpiredHoldingPurger interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// HoldingSweeper 定时清理数据库暂存区中过期的分箱
type HoldingSweeper struct {
	purger ExpiredHoldingPurger
	spec   string
	cron   *cron.Cron
}

// NewHoldingSweeper 创建清理任务，spec 为带秒字段的 cron 表达式
func NewHoldingSweeper(purger ExpiredHoldingPurger, spec string) (*HoldingSweeper, error) {
	if purger == nil {
		return nil, errors.New("holding purger is nil")
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = defaultSweepSpec
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(spec); err != nil {
		return nil, err
	}
	return &HoldingSweeper{
		purger: purger,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
	}, nil
}

// Name 服务名称
func (s *HoldingSweeper) Name() string {
	return "holding_sweeper"
}

// Start 注册并启动定时任务，阻塞直到 ctx 结束
func (s *HoldingSweeper) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("holding sweeper not initialized")
	}
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infow("worker_holding_sweeper_started", "spec", s.spec)
	<-ctx.Done()
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *HoldingSweeper) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// RunOnce 执行一次清理
func (s *HoldingSweeper) RunOnce(ctx context.Context) int64 {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	removed, err := s.purger.SweepExpired(runCtx)
	if err != nil {
		logger.Warnw("worker_holding_sweep_failed", "error", err)
		return 0
	}
	if removed > 0 {
		logger.Infow("worker_holding_swept", "removed", removed)
	}
	return removed
}
