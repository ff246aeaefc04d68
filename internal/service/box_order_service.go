package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/constants"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/queue"
	"github.com/boxorder-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BoxOrderService 分箱订单业务服务
type BoxOrderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	customerRepo repository.CustomerRepository
	catalog      boxorder.CatalogGateway
	settings     *SettingService
	holding      boxorder.HoldingStore
	queueClient  *queue.Client
	currency     string
	now          func() time.Time
}

// NewBoxOrderService 创建分箱订单服务
func NewBoxOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	customerRepo repository.CustomerRepository,
	catalog boxorder.CatalogGateway,
	settings *SettingService,
	holding boxorder.HoldingStore,
	queueClient *queue.Client,
	currency string,
) *BoxOrderService {
	if strings.TrimSpace(currency) == "" {
		currency = "MYR"
	}
	return &BoxOrderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		catalog:      catalog,
		settings:     settings,
		holding:      holding,
		queueClient:  queueClient,
		currency:     currency,
		now:          time.Now,
	}
}

// Currency 店铺币种
func (s *BoxOrderService) Currency() string {
	return s.currency
}

// CreateBoxOrderInput 后台直接创建分箱订单
type CreateBoxOrderInput struct {
	Agent       boxorder.AgentRef
	Boxes       []boxorder.RawBox
	CustomerID  uint
	Guest       *boxorder.BillingAddress
	Status      string
	Fulfillment FulfillmentMetaInput
}

// ValidateAndCreate 校验并创建分箱订单（后台创建）
func (s *BoxOrderService) ValidateAndCreate(ctx context.Context, input CreateBoxOrderInput) (*models.Order, *boxorder.OrderDraft, error) {
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, nil, err
	}
	status, err := normalizeOrderStatus(input.Status)
	if err != nil {
		return nil, nil, err
	}
	meta, err := resolveFulfillmentMeta(setting, fulfillmentState{}, input.Fulfillment)
	if err != nil {
		return nil, nil, err
	}

	set, err := boxorder.Validate(ctx, input.Boxes, setting.Limits(), s.catalog)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.loadCustomer(input.CustomerID)
	if err != nil {
		return nil, nil, err
	}

	draft, err := boxorder.Assemble(ctx, boxorder.AssembleInput{
		BoxSet:           *set,
		Customer:         customer,
		Guest:            input.Guest,
		Status:           status,
		Agent:            input.Agent,
		CreatedFromAdmin: true,
	}, s.catalog)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.persistDraft(draft, meta.state, nil)
	if err != nil {
		return nil, nil, err
	}
	s.notifyCreated(order)
	return order, draft, nil
}

// SubmitToCartInput 代理人下单表单提交
type SubmitToCartInput struct {
	SessionKey string
	Agent      boxorder.AgentRef
	AgentRole  string
	IsSuper    bool
	IsGuest    bool
	Boxes      []boxorder.RawBox
}

// CartSubmission 提交结果
type CartSubmission struct {
	BoxSet        boxorder.BoxSet           `json:"box_set"`
	Lines         []boxorder.AggregatedLine `json:"lines"`
	TotalQuantity int                       `json:"total_quantity"`
	Total         models.Money              `json:"total"`
	Currency      string                    `json:"currency"`
}

// SubmitToCart 校验分箱，写入会话购物车并暂存 BoxSet 等待结账
func (s *BoxOrderService) SubmitToCart(ctx context.Context, input SubmitToCartInput) (*CartSubmission, error) {
	sessionKey := strings.TrimSpace(input.SessionKey)
	if sessionKey == "" {
		return nil, ErrSessionRequired
	}
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, err
	}
	if err := checkOrderFormAccess(setting, input.IsGuest, input.IsSuper, input.AgentRole); err != nil {
		return nil, err
	}

	set, err := boxorder.Validate(ctx, input.Boxes, setting.Limits(), s.catalog)
	if err != nil {
		return nil, err
	}
	lines, conflicts := boxorder.AggregateWithConflicts(*set)
	logPriceConflicts(0, conflicts)

	key := boxorder.HoldingKey{SessionKey: sessionKey, AgentID: input.Agent.ID}
	if err := s.holding.Put(ctx, key, *set); err != nil {
		return nil, fmt.Errorf("hold box set: %w", err)
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return fillCart(s.cartRepo.WithTx(tx), sessionKey, lines, setting.ClearCartOnSubmit)
	})
	if err != nil {
		if clearErr := s.holding.Clear(ctx, key); clearErr != nil {
			logger.Warnw("box_order_holding_rollback_failed", "session", sessionKey, "agent_id", input.Agent.ID, "error", clearErr)
		}
		return nil, err
	}

	return &CartSubmission{
		BoxSet:        *set,
		Lines:         lines,
		TotalQuantity: boxorder.TotalQuantity(*set),
		Total:         models.NewMoney(boxorder.GrandTotal(lines)),
		Currency:      s.currency,
	}, nil
}

// CheckoutInput 结账
type CheckoutInput struct {
	SessionKey string
	Agent      boxorder.AgentRef
	CustomerID uint
	Billing    *boxorder.BillingAddress
}

// CompleteCheckout 读取暂存的 BoxSet 生成订单，成功后清理暂存与购物车
func (s *BoxOrderService) CompleteCheckout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	sessionKey := strings.TrimSpace(input.SessionKey)
	if sessionKey == "" {
		return nil, ErrSessionRequired
	}
	key := boxorder.HoldingKey{SessionKey: sessionKey, AgentID: input.Agent.ID}
	held, err := s.holding.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if held == nil || held.IsEmpty() {
		return nil, ErrNoPendingBoxes
	}

	customer, err := s.loadCustomer(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil && !hasGuestContact(input.Billing) {
		return nil, ErrBillingRequired
	}

	draft, err := boxorder.Assemble(ctx, boxorder.AssembleInput{
		BoxSet:   *held,
		Customer: customer,
		Guest:    input.Billing,
		Agent:    input.Agent,
	}, s.catalog)
	if err != nil {
		return nil, err
	}

	order, err := s.persistDraft(draft, fulfillmentState{}, func(tx *gorm.DB) error {
		return s.cartRepo.WithTx(tx).ClearSession(sessionKey)
	})
	if err != nil {
		return nil, err
	}
	if err := s.holding.Clear(ctx, key); err != nil {
		logger.Warnw("box_order_holding_clear_failed", "order_id", order.ID, "session", sessionKey, "error", err)
	}
	s.notifyCreated(order)
	return order, nil
}

// SaveEditInput 后台编辑分箱
type SaveEditInput struct {
	OrderID uint
	Boxes   []boxorder.RawBox
	Actor   boxorder.Actor
}

// SaveEditResult 编辑结果
type SaveEditResult struct {
	Changes []boxorder.Change `json:"changes"`
	Order   *models.Order     `json:"order"`
}

// SaveEdit 保存分箱编辑：同一事务内替换分箱、重建订单行、追加审计与备注
// 无变更时仍会落库并重建订单行，但不写审计与备注
func (s *BoxOrderService) SaveEdit(ctx context.Context, input SaveEditInput) (*SaveEditResult, error) {
	setting, err := s.settings.GetBoxOrderSetting()
	if err != nil {
		return nil, err
	}
	if !setting.AdminEditingEnabled {
		return nil, ErrBoxEditingDisabled
	}
	existing, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrOrderNotFound
	}
	if !existing.IsBoxOrder {
		return nil, ErrNotBoxOrder
	}

	// 目录查询放在事务外，避免单连接数据库在事务内等待连接
	set, err := boxorder.Validate(ctx, input.Boxes, setting.Limits(), s.catalog)
	if err != nil {
		return nil, err
	}
	lines, skipped, err := boxorder.BuildOrderLines(ctx, *set, s.catalog)
	if err != nil {
		return nil, err
	}
	items, total := orderItemsFromLines(lines)

	var changes []boxorder.Change
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.IsBoxOrder {
			return ErrNotBoxOrder
		}

		var previous *boxorder.BoxSet
		if !order.BoxSet.IsEmpty() {
			stored := order.BoxSet.BoxSet
			previous = &stored
		}
		changes = boxorder.Diff(previous, *set)

		order.BoxSet = models.BoxSetColumn{BoxSet: *set}
		order.TotalAmount = models.NewMoney(total)
		if err := repo.ReplaceBoxSet(order, items); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		now := s.now()
		entry := boxorder.NewHistoryEntry(input.Actor, changes, now)
		if err := repo.AppendHistory(&models.OrderEditHistory{
			OrderID:   order.ID,
			UserID:    entry.UserID,
			UserName:  entry.UserName,
			Changes:   models.ChangeList(entry.Changes),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return repo.AddNote(&models.OrderNote{
			OrderID:   order.ID,
			Author:    input.Actor.UserName,
			Content:   boxorder.EditNote(input.Actor, changes),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	logSkippedLines(input.OrderID, skipped)

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		s.notifyEdited(order, input.Actor, changes)
	}
	return &SaveEditResult{Changes: changes, Order: order}, nil
}

// persistDraft 在一个事务中写入订单、订单行与创建备注；extra 在同一事务中执行
func (s *BoxOrderService) persistDraft(draft *boxorder.OrderDraft, meta fulfillmentState, extra func(tx *gorm.DB) error) (*models.Order, error) {
	items, _ := orderItemsFromLines(draft.Lines)
	order := &models.Order{
		OrderNo:          generateOrderNo(s.now()),
		Status:           draft.Status,
		Currency:         s.currency,
		TotalAmount:      models.NewMoney(draft.Total),
		CustomerID:       draft.CustomerID,
		Billing:          models.NewBillingAddress(draft.Billing),
		IsBoxOrder:       true,
		BoxSet:           models.BoxSetColumn{BoxSet: draft.BoxSet},
		AgentID:          draft.Agent.ID,
		AgentName:        draft.Agent.Name,
		CreatedFromAdmin: draft.CreatedFromAdmin,
		PaymentStatus:    meta.PaymentStatus,
		CollectionMethod: meta.CollectionMethod,
		PickupDate:       meta.PickupDate,
		PickupTime:       meta.PickupTime,
	}
	author := strings.TrimSpace(draft.Agent.Name)
	if author == "" {
		author = "system"
	}
	notes := []models.OrderNote{{Author: author, Content: draft.Note}}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, items, notes); err != nil {
			return err
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
	if err != nil {
		logger.Errorw("box_order_persist_failed", "order_no", order.OrderNo, "agent_id", order.AgentID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	logSkippedLines(order.ID, draft.Skipped)
	_, conflicts := boxorder.AggregateWithConflicts(draft.BoxSet)
	logPriceConflicts(order.ID, conflicts)
	logger.Infow("box_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"agent_id", order.AgentID,
		"boxes", len(draft.BoxSet.Boxes),
		"total", order.TotalAmount.String(),
		"from_admin", order.CreatedFromAdmin,
	)
	return order, nil
}

func (s *BoxOrderService) loadCustomer(customerID uint) (*boxorder.CustomerProfile, error) {
	if customerID == 0 {
		return nil, nil
	}
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return &boxorder.CustomerProfile{
		ID:        customer.ID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Billing:   customer.Billing.ToDomain(),
	}, nil
}

func checkOrderFormAccess(setting BoxOrderSetting, isGuest, isSuper bool, role string) error {
	if isGuest {
		if !setting.GuestMode {
			return ErrGuestModeDisabled
		}
		return nil
	}
	if isSuper || setting.RoleAllowed(role) {
		return nil
	}
	return ErrRoleNotAllowed
}

func hasGuestContact(billing *boxorder.BillingAddress) bool {
	if billing == nil {
		return false
	}
	clean := billing.Sanitize()
	return clean.FirstName != "" && clean.Email != ""
}

func orderItemsFromLines(lines []boxorder.OrderLine) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total)
		items = append(items, models.OrderItem{
			ProductID:  line.ProductID,
			VariantID:  line.VariantID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			UnitPrice:  models.NewMoney(line.UnitPrice),
			TotalPrice: models.NewMoney(line.Total),
		})
	}
	return items, total
}

var knownOrderStatuses = map[string]struct{}{
	constants.OrderStatusPending:    {},
	constants.OrderStatusProcessing: {},
	constants.OrderStatusOnHold:     {},
	constants.OrderStatusCompleted:  {},
	constants.OrderStatusCancelled:  {},
}

func normalizeOrderStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	status = strings.TrimPrefix(status, "wc-")
	if status == "" {
		return boxorder.DefaultOrderStatus, nil
	}
	if _, ok := knownOrderStatuses[status]; !ok {
		return "", ErrInvalidOrderStatus
	}
	return status, nil
}

func logSkippedLines(orderID uint, skipped []boxorder.LineKey) {
	for _, key := range skipped {
		logger.Warnw("box_order_item_skipped",
			"order_id", orderID,
			"product_id", key.ProductID,
			"variation_id", key.VariantID,
		)
	}
}

func logPriceConflicts(orderID uint, conflicts []boxorder.PriceConflict) {
	for _, conflict := range conflicts {
		logger.Warnw("box_order_price_conflict",
			"order_id", orderID,
			"product_id", conflict.Key.ProductID,
			"variation_id", conflict.Key.VariantID,
			"box", conflict.Box,
			"kept", conflict.Kept.StringFixed(2),
			"received", conflict.Received.StringFixed(2),
		)
	}
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("BX%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}

// IsValidationError 判断是否为分箱校验错误
func IsValidationError(err error) bool {
	var verr *boxorder.ValidationError
	return errors.As(err, &verr)
}
