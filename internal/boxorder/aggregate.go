package boxorder

import "github.com/shopspring/decimal"

// AggregatedLine 跨箱合并后的商品行
type AggregatedLine struct {
	ProductID          uint            `json:"product_id"`
	VariantID          uint            `json:"variation_id"`
	ProductName        string          `json:"product_name"`
	VariantDescription string          `json:"variation_attrs,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"price"`
}

// Key 聚合键
func (l AggregatedLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, VariantID: l.VariantID}
}

// Total 行合计
func (l AggregatedLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PriceConflict 同一聚合键下出现的不同单价
type PriceConflict struct {
	Key      LineKey
	Box      string
	Kept     decimal.Decimal
	Received decimal.Decimal
}

// Aggregate 按 (商品, 规格) 合并数量，单价取首次出现的条目，结果按首次出现顺序排列
func Aggregate(set BoxSet) []AggregatedLine {
	lines, _ := AggregateWithConflicts(set)
	return lines
}

// AggregateWithConflicts 同 Aggregate，并返回单价不一致的条目
func AggregateWithConflicts(set BoxSet) ([]AggregatedLine, []PriceConflict) {
	index := make(map[LineKey]int)
	lines := make([]AggregatedLine, 0)
	var conflicts []PriceConflict
	for _, box := range set.Boxes {
		for _, item := range box.Items {
			key := item.Key()
			if pos, ok := index[key]; ok {
				lines[pos].Quantity += item.Quantity
				if !lines[pos].UnitPrice.Equal(item.UnitPrice) {
					conflicts = append(conflicts, PriceConflict{
						Key:      key,
						Box:      box.Label,
						Kept:     lines[pos].UnitPrice,
						Received: item.UnitPrice,
					})
				}
				continue
			}
			index[key] = len(lines)
			lines = append(lines, AggregatedLine{
				ProductID:          item.ProductID,
				VariantID:          item.VariantID,
				ProductName:        item.ProductName,
				VariantDescription: item.VariantDescription,
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
			})
		}
	}
	return lines, conflicts
}

// TotalQuantity 所有箱子商品数量之和
func TotalQuantity(set BoxSet) int {
	total := 0
	for _, box := range set.Boxes {
		total += box.TotalQuantity()
	}
	return total
}

// GrandTotal 按聚合行计算的订单金额
func GrandTotal(lines []AggregatedLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}
