package boxorder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PackingBox 装箱单中的一个箱子
type PackingBox struct {
	Label         string          `json:"label"`
	Items         []BoxItem       `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
}

// CollectingLine 拣货单行
type CollectingLine struct {
	ProductID   uint            `json:"product_id"`
	VariantID   uint            `json:"variation_id"`
	ProductName string          `json:"product_name"`
	Variation   string          `json:"variation"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// PackingList 按箱输出装箱单
func PackingList(set BoxSet) []PackingBox {
	out := make([]PackingBox, 0, len(set.Boxes))
	for _, box := range set.Boxes {
		items := make([]BoxItem, len(box.Items))
		copy(items, box.Items)
		out = append(out, PackingBox{
			Label:         box.Label,
			Items:         items,
			TotalQuantity: box.TotalQuantity(),
			Total:         box.Total(),
		})
	}
	return out
}

// CollectingList 跨箱合并并按商品名稳定排序的拣货单
// catalog 为 nil 时只使用快照名称；商品已删除时同样回退到快照
func CollectingList(ctx context.Context, set BoxSet, catalog CatalogGateway) ([]CollectingLine, error) {
	aggregated := Aggregate(set)
	lines := make([]CollectingLine, 0, len(aggregated))
	for _, agg := range aggregated {
		line := CollectingLine{
			ProductID:   agg.ProductID,
			VariantID:   agg.VariantID,
			ProductName: agg.ProductName,
			Variation:   agg.VariantDescription,
			Quantity:    agg.Quantity,
			UnitPrice:   agg.UnitPrice,
		}
		if catalog != nil {
			if err := refreshDisplay(ctx, catalog, &line); err != nil {
				return nil, err
			}
		}
		if strings.TrimSpace(line.Variation) == "" {
			line.Variation = "-"
		}
		lines = append(lines, line)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return strings.ToLower(lines[i].ProductName) < strings.ToLower(lines[j].ProductName)
	})
	return lines, nil
}

func refreshDisplay(ctx context.Context, catalog CatalogGateway, line *CollectingLine) error {
	product, err := catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return fmt.Errorf("lookup product %d: %w", line.ProductID, err)
	}
	if product == nil {
		return nil
	}
	if product.Name != "" {
		line.ProductName = product.Name
	}
	if line.VariantID == 0 {
		return nil
	}
	variant, err := catalog.GetVariant(ctx, line.VariantID)
	if err != nil {
		return fmt.Errorf("lookup variation %d: %w", line.VariantID, err)
	}
	if variant == nil {
		return nil
	}
	description, err := DescribeVariant(ctx, catalog, product, variant)
	if err != nil {
		return err
	}
	line.Variation = description
	return nil
}

// PlainTextBreakdown 纯文本的分箱明细（邮件使用）
func PlainTextBreakdown(set BoxSet, currency string) string {
	var b strings.Builder
	b.WriteString("BOX BREAKDOWN\n")
	for _, box := range set.Boxes {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Box: %s\n", box.Label))
		for _, item := range box.Items {
			b.WriteString(fmt.Sprintf("  - %s x%d %s %s\n", item.DisplayName(), item.Quantity, currency, item.Subtotal().StringFixed(2)))
		}
		b.WriteString(fmt.Sprintf("  Box total: %s %s\n", currency, box.Total().StringFixed(2)))
	}
	return b.String()
}
