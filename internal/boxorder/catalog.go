package boxorder

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CatalogProduct 目录中的商品信息
type CatalogProduct struct {
	ID          uint
	Name        string
	Price       decimal.Decimal
	Purchasable bool
	IsVariable  bool
	InStock     bool
}

// VariantAttribute 规格属性（attribute -> slug）
type VariantAttribute struct {
	Name  string
	Value string
}

// CatalogVariant 目录中的规格信息
type CatalogVariant struct {
	ID          uint
	ParentID    uint
	Name        string
	Price       decimal.Decimal
	Purchasable bool
	Attributes  []VariantAttribute
}

// CatalogGateway 商品目录查询能力，未找到时返回 nil, nil
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID uint) (*CatalogProduct, error)
	GetVariant(ctx context.Context, variantID uint) (*CatalogVariant, error)
	ResolveAttributeTerm(ctx context.Context, attribute, slug string) (string, bool, error)
}

// DescribeVariant 生成规格描述文本
func DescribeVariant(ctx context.Context, catalog CatalogGateway, parent *CatalogProduct, variant *CatalogVariant) (string, error) {
	if variant == nil {
		return "", nil
	}
	parts := make([]string, 0, len(variant.Attributes))
	for _, attr := range variant.Attributes {
		value := strings.TrimSpace(attr.Value)
		if value == "" {
			continue
		}
		name, ok, err := catalog.ResolveAttributeTerm(ctx, attr.Name, value)
		if err != nil {
			return "", err
		}
		if !ok || strings.TrimSpace(name) == "" {
			name = HumanizeSlug(value)
		}
		parts = append(parts, name)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", "), nil
	}

	name := strings.TrimSpace(variant.Name)
	if parent != nil && parent.Name != "" {
		name = strings.TrimSpace(strings.TrimPrefix(name, parent.Name+" - "))
		if name == parent.Name {
			name = ""
		}
	}
	if name != "" {
		return name, nil
	}
	return fmt.Sprintf("Variation #%d", variant.ID), nil
}

// HumanizeSlug 将 slug 转为可读文本：下划线/连字符转空格并首字母大写
func HumanizeSlug(slug string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(slug))
	words := strings.Fields(replaced)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToTitle(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
