package service

import (
	"strings"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartLine 购物车行（用于响应）
type CartLine struct {
	ProductID uint         `json:"product_id"`
	VariantID uint         `json:"variation_id"`
	Title     string       `json:"title"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
	Total     models.Money `json:"total"`
}

// CartView 会话购物车
type CartView struct {
	Lines    []CartLine   `json:"lines"`
	Total    models.Money `json:"total"`
	Currency string       `json:"currency"`
}

// CartService 会话购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	currency string
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, currency string) *CartService {
	return &CartService{cartRepo: cartRepo, currency: currency}
}

// View 获取会话购物车
func (s *CartService) View(sessionKey string) (*CartView, error) {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return nil, ErrSessionRequired
	}
	items, err := s.cartRepo.ListBySession(sessionKey)
	if err != nil {
		return nil, err
	}
	view := &CartView{Lines: make([]CartLine, 0, len(items)), Currency: s.currency}
	total := decimal.Zero
	for _, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		view.Lines = append(view.Lines, CartLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     models.NewMoney(lineTotal),
		})
	}
	view.Total = models.NewMoney(total)
	return view, nil
}

// fillCart 在事务中写入合并后的行；clearFirst 时先清空
func fillCart(repo repository.CartRepository, sessionKey string, lines []boxorder.AggregatedLine, clearFirst bool) error {
	if clearFirst {
		if err := repo.ClearSession(sessionKey); err != nil {
			return err
		}
	}
	for _, line := range lines {
		title := line.ProductName
		if line.VariantDescription != "" {
			title = line.ProductName + " - " + line.VariantDescription
		}
		if err := repo.AddQuantity(&models.CartItem{
			SessionKey: sessionKey,
			ProductID:  line.ProductID,
			VariantID:  line.VariantID,
			Title:      title,
			Quantity:   line.Quantity,
			UnitPrice:  models.NewMoney(line.UnitPrice),
		}); err != nil {
			return err
		}
	}
	return nil
}
