package service

import (
	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/queue"
)

// 通知入队失败不影响订单本身，仅记录日志
func (s *BoxOrderService) notifyCreated(order *models.Order) {
	if order == nil || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueBoxOrderCreated(queue.BoxOrderCreatedPayload{
		OrderID:   order.ID,
		AgentName: order.AgentName,
	}); err != nil {
		logger.Errorw("box_order_enqueue_created_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func (s *BoxOrderService) notifyEdited(order *models.Order, actor boxorder.Actor, changes []boxorder.Change) {
	if order == nil || s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueBoxOrderEdited(queue.BoxOrderEditedPayload{
		OrderID:  order.ID,
		EditedBy: actorName(actor),
		Summary:  boxorder.SummarizeChanges(changes),
	}); err != nil {
		logger.Errorw("box_order_enqueue_edited_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}
