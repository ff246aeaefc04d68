package boxorder

import (
	"context"
	"fmt"
	"strings"
)

// Validate 校验原始箱子输入并生成 BoxSet
// 首个错误即返回，失败时不产出部分结果
func Validate(ctx context.Context, raw []RawBox, limits Limits, catalog CatalogGateway) (*BoxSet, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog gateway is nil")
	}
	if limits.MaxBoxes > 0 && len(raw) > limits.MaxBoxes {
		return nil, tooManyBoxes(limits.MaxBoxes)
	}

	set := &BoxSet{Boxes: make([]Box, 0, len(raw))}
	for idx, rawBox := range raw {
		label := strings.TrimSpace(rawBox.Label)
		if label == "" {
			label = fmt.Sprintf("Box %d", idx+1)
		}
		// 标签是箱子的身份，编辑比对依赖它唯一
		for _, seen := range set.Boxes {
			if SameBox(seen.Label, label) {
				return nil, duplicateBox(label)
			}
		}
		if len(rawBox.Items) == 0 {
			return nil, emptyBox(label)
		}
		if limits.MaxItemsPerBox > 0 && len(rawBox.Items) > limits.MaxItemsPerBox {
			return nil, tooManyItems(label, limits.MaxItemsPerBox)
		}

		box := Box{Label: label, Items: make([]BoxItem, 0, len(rawBox.Items))}
		for _, rawItem := range rawBox.Items {
			if rawItem.ProductID == 0 {
				// 表单空白行
				continue
			}
			item, err := validateItem(ctx, label, rawItem, catalog)
			if err != nil {
				return nil, err
			}
			box.Items = append(box.Items, *item)
		}
		if len(box.Items) == 0 {
			return nil, emptyBox(label)
		}
		set.Boxes = append(set.Boxes, box)
	}

	if len(set.Boxes) == 0 {
		return nil, noValidBoxes()
	}
	return set, nil
}

func validateItem(ctx context.Context, label string, raw RawItem, catalog CatalogGateway) (*BoxItem, error) {
	if raw.Quantity < 1 {
		return nil, invalidQuantity(label, raw.ProductID)
	}

	product, err := catalog.GetProduct(ctx, raw.ProductID)
	if err != nil {
		return nil, fmt.Errorf("lookup product %d: %w", raw.ProductID, err)
	}
	if product == nil || !product.Purchasable || product.Price.IsNegative() {
		return nil, invalidProduct(label, raw.ProductID)
	}

	item := &BoxItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    raw.Quantity,
		UnitPrice:   product.Price,
	}
	if item.ProductName == "" {
		item.ProductName = strings.TrimSpace(raw.ProductName)
	}

	if !product.IsVariable {
		// 简单商品忽略客户端传入的规格
		return item, nil
	}
	if raw.VariantID == 0 {
		return nil, missingVariant(label, product.ID, item.ProductName)
	}

	variant, err := catalog.GetVariant(ctx, raw.VariantID)
	if err != nil {
		return nil, fmt.Errorf("lookup variation %d: %w", raw.VariantID, err)
	}
	if variant == nil || !variant.Purchasable || variant.ParentID != product.ID || variant.Price.IsNegative() {
		return nil, invalidVariant(label, product.ID, raw.VariantID)
	}

	description, err := DescribeVariant(ctx, catalog, product, variant)
	if err != nil {
		return nil, fmt.Errorf("describe variation %d: %w", variant.ID, err)
	}
	item.VariantID = variant.ID
	item.VariantDescription = description
	item.UnitPrice = variant.Price
	return item, nil
}
