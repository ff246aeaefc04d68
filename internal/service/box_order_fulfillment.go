package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"

	"gorm.io/gorm"
)

const notSetLabel = "Not set"

// FulfillmentMetaInput 付款状态 / 取货方式 / 自取或货到付款时间
// 字段为 nil 表示不修改，空字符串表示清空
type FulfillmentMetaInput struct {
	PaymentStatus    *string `json:"payment_status"`
	CollectionMethod *string `json:"collection_method"`
	PickupDate       *string `json:"pickup_cod_date"`
	PickupTime       *string `json:"pickup_cod_time"`
}

type fulfillmentState struct {
	PaymentStatus    string
	CollectionMethod string
	PickupDate       string
	PickupTime       string
}

type resolvedFulfillment struct {
	state fulfillmentState
	notes []string
}

// UpdateFulfillmentMeta 更新订单履约信息，每个变更字段生成一条订单备注
func (s *BoxOrderService) UpdateFulfillmentMeta(_ context.Context, orderID uint, input FulfillmentMetaInput, actor boxorder.Actor) (*models.Order, error) {
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, err
	}

	var changed []string
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		current := fulfillmentState{
			PaymentStatus:    order.PaymentStatus,
			CollectionMethod: order.CollectionMethod,
			PickupDate:       order.PickupDate,
			PickupTime:       order.PickupTime,
		}
		resolved, err := resolveFulfillmentMeta(setting, current, input)
		if err != nil {
			return err
		}
		if len(resolved.notes) == 0 {
			return nil
		}
		if err := repo.UpdateFields(order.ID, map[string]interface{}{
			"payment_status":    resolved.state.PaymentStatus,
			"collection_method": resolved.state.CollectionMethod,
			"pickup_date":       resolved.state.PickupDate,
			"pickup_time":       resolved.state.PickupTime,
		}); err != nil {
			return err
		}
		now := s.now()
		for _, line := range resolved.notes {
			if err := repo.AddNote(&models.OrderNote{
				OrderID:   order.ID,
				Author:    actor.UserName,
				Content:   fmt.Sprintf("%s by %s", line, actorName(actor)),
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		changed = resolved.notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		logger.Infow("box_order_fulfillment_updated", "order_id", orderID, "user_id", actor.UserID, "changes", len(changed))
	}
	return s.orderRepo.GetByID(orderID)
}

// resolveFulfillmentMeta 校验输入并计算新状态与备注文本
func resolveFulfillmentMeta(setting BoxOrderSetting, current fulfillmentState, input FulfillmentMetaInput) (resolvedFulfillment, error) {
	next := current
	var notes []string

	if input.PaymentStatus != nil {
		slug := strings.TrimSpace(*input.PaymentStatus)
		if slug != "" {
			if _, ok := setting.PaymentStatus(slug); !ok {
				return resolvedFulfillment{}, ErrInvalidPaymentStatus
			}
		}
		if slug != current.PaymentStatus {
			notes = append(notes, fmt.Sprintf("Payment Status changed from %s to %s",
				optionLabel(setting.PaymentStatuses, current.PaymentStatus),
				optionLabel(setting.PaymentStatuses, slug)))
			next.PaymentStatus = slug
		}
	}

	if input.CollectionMethod != nil {
		slug := strings.TrimSpace(*input.CollectionMethod)
		if slug != "" {
			if _, ok := setting.CollectionMethod(slug); !ok {
				return resolvedFulfillment{}, ErrInvalidCollection
			}
		}
		if slug != current.CollectionMethod {
			notes = append(notes, fmt.Sprintf("Collection Method changed from %s to %s",
				optionLabel(setting.CollectionMethods, current.CollectionMethod),
				optionLabel(setting.CollectionMethods, slug)))
			next.CollectionMethod = slug
		}
	}

	if input.PickupDate != nil {
		date := strings.TrimSpace(*input.PickupDate)
		if date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return resolvedFulfillment{}, ErrInvalidPickupDate
			}
		}
		if date != current.PickupDate {
			notes = append(notes, fmt.Sprintf("Pickup/COD Date changed from %s to %s",
				formatPickupDate(current.PickupDate), formatPickupDate(date)))
			next.PickupDate = date
		}
	}

	if input.PickupTime != nil {
		clock := strings.TrimSpace(*input.PickupTime)
		if clock != "" {
			if _, err := time.Parse("15:04", clock); err != nil {
				return resolvedFulfillment{}, ErrInvalidPickupTime
			}
		}
		if clock != current.PickupTime {
			notes = append(notes, fmt.Sprintf("Pickup/COD Time changed from %s to %s",
				formatPickupTime(current.PickupTime), formatPickupTime(clock)))
			next.PickupTime = clock
		}
	}

	return resolvedFulfillment{state: next, notes: notes}, nil
}

func optionLabel(options []StatusOption, slug string) string {
	if slug == "" {
		return notSetLabel
	}
	if opt, ok := findOption(options, slug); ok {
		return opt.Label
	}
	return slug
}

func formatPickupDate(value string) string {
	if value == "" {
		return notSetLabel
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return parsed.Format("02/01/2006")
}

func formatPickupTime(value string) string {
	if value == "" {
		return notSetLabel
	}
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return value
	}
	return parsed.Format("3:04 PM")
}

func actorName(actor boxorder.Actor) string {
	if name := strings.TrimSpace(actor.UserName); name != "" {
		return name
	}
	return fmt.Sprintf("user #%d", actor.UserID)
}
