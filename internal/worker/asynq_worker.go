package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/provider"
	"github.com/boxorder-next/internal/queue"
	"github.com/boxorder-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskBoxOrderCreated, c.handleBoxOrderCreated)
	mux.HandleFunc(queue.TaskBoxOrderEdited, c.handleBoxOrderEdited)
}

func (c *Consumer) handleBoxOrderCreated(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_box_order_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseBoxOrderCreatedPayload(task)
	if err != nil {
		logger.Warnw("worker_box_order_created_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	agent := payload.AgentName
	if agent == "" {
		agent = order.AgentName
	}
	err = c.EmailService.SendBoxOrderCreated(service.BoxOrderEmailInput{
		OrderNo:   order.OrderNo,
		AgentName: agent,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		BoxSet:    order.BoxSet.BoxSet,
	})
	return c.handleSendResult("worker_box_order_created", order, err)
}

func (c *Consumer) handleBoxOrderEdited(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_box_order_edited_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseBoxOrderEditedPayload(task)
	if err != nil {
		logger.Warnw("worker_box_order_edited_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	err = c.EmailService.SendBoxOrderEdited(service.BoxOrderEmailInput{
		OrderNo:   order.OrderNo,
		AgentName: payload.EditedBy,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		BoxSet:    order.BoxSet.BoxSet,
		Summary:   payload.Summary,
	})
	return c.handleSendResult("worker_box_order_edited", order, err)
}

// loadOrder 订单不存在或不是分箱订单时返回 nil, nil，任务直接丢弃
func (c *Consumer) loadOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		logger.Debugw("worker_box_order_skip_invalid_payload", "order_id", orderID)
		return nil, nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_box_order_skip_email_service_nil", "order_id", orderID)
		return nil, nil
	}
	order, err := c.OrderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw("worker_box_order_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if order == nil || !order.IsBoxOrder {
		logger.Debugw("worker_box_order_skip_order_not_found", "order_id", orderID)
		return nil, nil
	}
	return order, nil
}

// 邮件未启用或未配置收件人时丢弃任务，收件人被拒时不再重试
func (c *Consumer) handleSendResult(event string, order *models.Order, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
		logger.Debugw(event+"_skip_email_disabled", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if errors.Is(err, service.ErrEmailRecipientRejected) {
		logger.Warnw(event+"_recipient_rejected", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logger.Warnw(event+"_send_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	return err
}
