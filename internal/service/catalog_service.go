package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/cache"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"
)

// CatalogService 商品目录读服务，实现 boxorder.CatalogGateway
// Redis 启用时对单个商品/规格/属性词条做读穿缓存
type CatalogService struct {
	productRepo repository.ProductRepository
	ttl         time.Duration
}

// NewCatalogService 创建目录服务
func NewCatalogService(productRepo repository.ProductRepository, ttl time.Duration) *CatalogService {
	return &CatalogService{productRepo: productRepo, ttl: ttl}
}

var _ boxorder.CatalogGateway = (*CatalogService)(nil)

// GetProduct 查询商品，不存在时返回 nil, nil
func (s *CatalogService) GetProduct(ctx context.Context, productID uint) (*boxorder.CatalogProduct, error) {
	if productID == 0 {
		return nil, nil
	}
	key := fmt.Sprintf("catalog:product:%d", productID)
	var cached boxorder.CatalogProduct
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	result := toCatalogProduct(product)
	s.writeCache(ctx, key, result)
	return result, nil
}

// GetVariant 查询规格，不存在时返回 nil, nil
func (s *CatalogService) GetVariant(ctx context.Context, variantID uint) (*boxorder.CatalogVariant, error) {
	if variantID == 0 {
		return nil, nil
	}
	key := fmt.Sprintf("catalog:variant:%d", variantID)
	var cached boxorder.CatalogVariant
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	variant, err := s.productRepo.GetVariantByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, nil
	}
	result := toCatalogVariant(variant)
	s.writeCache(ctx, key, result)
	return result, nil
}

// ResolveAttributeTerm 解析属性词条的展示名
func (s *CatalogService) ResolveAttributeTerm(ctx context.Context, attribute, slug string) (string, bool, error) {
	attribute = strings.TrimSpace(attribute)
	slug = strings.TrimSpace(slug)
	if attribute == "" || slug == "" {
		return "", false, nil
	}
	key := fmt.Sprintf("catalog:term:%s:%s", attribute, slug)
	var cached string
	if s.readCache(ctx, key, &cached) {
		return cached, cached != "", nil
	}

	term, err := s.productRepo.GetTerm(attribute, slug)
	if err != nil {
		return "", false, err
	}
	if term == nil {
		return "", false, nil
	}
	s.writeCache(ctx, key, term.Name)
	return term.Name, true, nil
}

// Search 商品搜索（下单表单与后台共用）
func (s *CatalogService) Search(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Invalidate 商品变更后清理缓存
func (s *CatalogService) Invalidate(ctx context.Context, productID uint, variantIDs ...uint) {
	keys := []string{fmt.Sprintf("catalog:product:%d", productID)}
	for _, id := range variantIDs {
		keys = append(keys, fmt.Sprintf("catalog:variant:%d", id))
	}
	if err := cache.Del(ctx, keys...); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "product_id", productID, "error", err)
	}
}

func (s *CatalogService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.ttl <= 0 || !cache.Enabled() {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Debugw("catalog_cache_read_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *CatalogService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.ttl <= 0 || !cache.Enabled() {
		return
	}
	if err := cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		logger.Debugw("catalog_cache_write_failed", "key", key, "error", err)
	}
}

func toCatalogProduct(p *models.Product) *boxorder.CatalogProduct {
	return &boxorder.CatalogProduct{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.PriceAmount.Decimal,
		Purchasable: p.Purchasable(),
		IsVariable:  p.IsVariable,
		InStock:     p.StockStatus != models.StockStatusOutOfStock,
	}
}

// 属性按名称排序，保证描述文本稳定
func toCatalogVariant(v *models.ProductVariant) *boxorder.CatalogVariant {
	names := make([]string, 0, len(v.Attributes))
	for name := range v.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	attrs := make([]boxorder.VariantAttribute, 0, len(names))
	for _, name := range names {
		value, ok := v.Attributes[name].(string)
		if !ok {
			value = fmt.Sprint(v.Attributes[name])
		}
		attrs = append(attrs, boxorder.VariantAttribute{Name: name, Value: value})
	}
	return &boxorder.CatalogVariant{
		ID:          v.ID,
		ParentID:    v.ProductID,
		Name:        v.Name,
		Price:       v.PriceAmount.Decimal,
		Purchasable: v.Purchasable(),
		Attributes:  attrs,
	}
}
