package boxorder

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultOrderStatus 未指定时的订单状态
const DefaultOrderStatus = "pending"

// BillingAddress 账单信息
type BillingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// Sanitize 去除首尾空白
func (b BillingAddress) Sanitize() BillingAddress {
	return BillingAddress{
		FirstName: strings.TrimSpace(b.FirstName),
		LastName:  strings.TrimSpace(b.LastName),
		Email:     strings.ToLower(strings.TrimSpace(b.Email)),
		Phone:     strings.TrimSpace(b.Phone),
		Address1:  strings.TrimSpace(b.Address1),
		Address2:  strings.TrimSpace(b.Address2),
		City:      strings.TrimSpace(b.City),
		State:     strings.TrimSpace(b.State),
		Postcode:  strings.TrimSpace(b.Postcode),
		Country:   strings.ToUpper(strings.TrimSpace(b.Country)),
	}
}

// CustomerProfile 注册客户资料
type CustomerProfile struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Billing   BillingAddress
}

// AgentRef 创建订单的代理人
type AgentRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AssembleInput 组装订单的输入
type AssembleInput struct {
	BoxSet           BoxSet
	Customer         *CustomerProfile
	Guest            *BillingAddress
	Status           string
	Agent            AgentRef
	CreatedFromAdmin bool
}

// OrderLine 订单行
type OrderLine struct {
	ProductID uint            `json:"product_id"`
	VariantID uint            `json:"variation_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderDraft 待持久化的订单
type OrderDraft struct {
	Status           string
	CustomerID       uint
	Billing          BillingAddress
	Lines            []OrderLine
	Skipped          []LineKey
	Total            decimal.Decimal
	IsBoxOrder       bool
	BoxSet           BoxSet
	Agent            AgentRef
	CreatedFromAdmin bool
	Note             string
}

// Assemble 将已校验的 BoxSet 组装为订单
// 目录中已无法解析的商品会被跳过并记录在 Skipped 中，不视为错误
func Assemble(ctx context.Context, input AssembleInput, catalog CatalogGateway) (*OrderDraft, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog gateway is nil")
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = DefaultOrderStatus
	}

	draft := &OrderDraft{
		Status:           status,
		Billing:          resolveBilling(input.Customer, input.Guest),
		IsBoxOrder:       true,
		BoxSet:           input.BoxSet.Clone(),
		Agent:            input.Agent,
		CreatedFromAdmin: input.CreatedFromAdmin,
		Total:            decimal.Zero,
	}
	if input.Customer != nil {
		draft.CustomerID = input.Customer.ID
	}

	lines, skipped, err := BuildOrderLines(ctx, input.BoxSet, catalog)
	if err != nil {
		return nil, err
	}
	draft.Lines = lines
	draft.Skipped = skipped
	for _, line := range lines {
		draft.Total = draft.Total.Add(line.Total)
	}
	draft.Note = creationNote(input)
	return draft, nil
}

// BuildOrderLines 由 BoxSet 重新生成订单行（全量重建）
func BuildOrderLines(ctx context.Context, set BoxSet, catalog CatalogGateway) ([]OrderLine, []LineKey, error) {
	aggregated := Aggregate(set)
	lines := make([]OrderLine, 0, len(aggregated))
	var skipped []LineKey
	for _, agg := range aggregated {
		product, err := catalog.GetProduct(ctx, agg.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup product %d: %w", agg.ProductID, err)
		}
		if product == nil {
			skipped = append(skipped, agg.Key())
			continue
		}
		title := product.Name
		if agg.VariantID != 0 {
			variant, err := catalog.GetVariant(ctx, agg.VariantID)
			if err != nil {
				return nil, nil, fmt.Errorf("lookup variation %d: %w", agg.VariantID, err)
			}
			if variant == nil {
				skipped = append(skipped, agg.Key())
				continue
			}
			if agg.VariantDescription != "" {
				title = title + " - " + agg.VariantDescription
			}
		}
		lines = append(lines, OrderLine{
			ProductID: agg.ProductID,
			VariantID: agg.VariantID,
			Title:     title,
			Quantity:  agg.Quantity,
			UnitPrice: agg.UnitPrice,
			Total:     agg.Total(),
		})
	}
	return lines, skipped, nil
}

func resolveBilling(customer *CustomerProfile, guest *BillingAddress) BillingAddress {
	if customer == nil {
		if guest == nil {
			return BillingAddress{}
		}
		return guest.Sanitize()
	}
	billing := customer.Billing.Sanitize()
	if billing.FirstName == "" {
		billing.FirstName = strings.TrimSpace(customer.FirstName)
	}
	if billing.LastName == "" {
		billing.LastName = strings.TrimSpace(customer.LastName)
	}
	if billing.Email == "" {
		billing.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	}
	return billing
}

func creationNote(input AssembleInput) string {
	agent := strings.TrimSpace(input.Agent.Name)
	if agent == "" {
		agent = "guest"
	}
	if input.CreatedFromAdmin {
		return fmt.Sprintf("Box order created from admin by %s.", agent)
	}
	return fmt.Sprintf("Box order placed by %s with %d boxes.", agent, len(input.BoxSet.Boxes))
}
