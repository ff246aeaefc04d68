package boxorder

import (
	"fmt"
	"strings"
)

// ChangeKind 变更类型
type ChangeKind string

const (
	ChangeBoxAdded    ChangeKind = "box_added"
	ChangeBoxRemoved  ChangeKind = "box_removed"
	ChangeItemAdded   ChangeKind = "item_added"
	ChangeItemRemoved ChangeKind = "item_removed"
	ChangeQtyChanged  ChangeKind = "qty_changed"
)

// Change 单条结构化变更
// Box 类变更只填写 Box；商品类变更填写商品字段，数量变更额外填写 From/To
type Change struct {
	Kind        ChangeKind `json:"type"`
	Box         string     `json:"box"`
	ProductID   uint       `json:"product_id,omitempty"`
	VariantID   uint       `json:"variation_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	From        int        `json:"from,omitempty"`
	To          int        `json:"to,omitempty"`
}

// Describe 可读描述
func (c Change) Describe() string {
	switch c.Kind {
	case ChangeBoxRemoved:
		return fmt.Sprintf("Box %q removed", c.Box)
	case ChangeBoxAdded:
		return fmt.Sprintf("Box %q added", c.Box)
	case ChangeItemRemoved:
		return fmt.Sprintf("Box %q: removed %q", c.Box, c.ProductName)
	case ChangeItemAdded:
		return fmt.Sprintf("Box %q: added %q x%d", c.Box, c.ProductName, c.Quantity)
	case ChangeQtyChanged:
		return fmt.Sprintf("Box %q: %q qty %d → %d", c.Box, c.ProductName, c.From, c.To)
	}
	return string(c.Kind)
}

// SameBox 箱子身份判定：标签逐字节相等
// 重命名箱子会被视为删除旧箱并新增新箱
func SameBox(a, b string) bool {
	return a == b
}

type diffItem struct {
	key      LineKey
	name     string
	quantity int
}

// Diff 比较新旧 BoxSet，按固定顺序输出变更
// old 为 nil 时视为空集合
func Diff(old *BoxSet, next BoxSet) []Change {
	var oldBoxes []Box
	if old != nil {
		oldBoxes = old.Boxes
	}

	changes := make([]Change, 0)
	for _, ob := range oldBoxes {
		if findBox(next.Boxes, ob.Label) == nil {
			changes = append(changes, Change{Kind: ChangeBoxRemoved, Box: ob.Label})
		}
	}

	for _, nb := range next.Boxes {
		ob := findBox(oldBoxes, nb.Label)
		if ob == nil {
			changes = append(changes, Change{Kind: ChangeBoxAdded, Box: nb.Label})
			continue
		}
		changes = append(changes, diffItems(nb.Label, indexItems(ob.Items), indexItems(nb.Items))...)
	}
	return changes
}

func diffItems(label string, oldItems, newItems []diffItem) []Change {
	oldIndex := make(map[LineKey]diffItem, len(oldItems))
	for _, item := range oldItems {
		oldIndex[item.key] = item
	}
	newIndex := make(map[LineKey]diffItem, len(newItems))
	for _, item := range newItems {
		newIndex[item.key] = item
	}

	var changes []Change
	for _, item := range oldItems {
		if _, ok := newIndex[item.key]; !ok {
			changes = append(changes, itemChange(ChangeItemRemoved, label, item))
		}
	}
	for _, item := range newItems {
		if _, ok := oldIndex[item.key]; !ok {
			change := itemChange(ChangeItemAdded, label, item)
			change.Quantity = item.quantity
			changes = append(changes, change)
		}
	}
	for _, item := range newItems {
		prev, ok := oldIndex[item.key]
		if !ok || prev.quantity == item.quantity {
			continue
		}
		change := itemChange(ChangeQtyChanged, label, item)
		change.From = prev.quantity
		change.To = item.quantity
		changes = append(changes, change)
	}
	return changes
}

func itemChange(kind ChangeKind, label string, item diffItem) Change {
	return Change{
		Kind:        kind,
		Box:         label,
		ProductID:   item.key.ProductID,
		VariantID:   item.key.VariantID,
		ProductName: item.name,
	}
}

// indexItems 同一箱内重复的商品合并数量，保持首次出现顺序
func indexItems(items []BoxItem) []diffItem {
	out := make([]diffItem, 0, len(items))
	pos := make(map[LineKey]int, len(items))
	for _, item := range items {
		key := item.Key()
		if idx, ok := pos[key]; ok {
			out[idx].quantity += item.Quantity
			continue
		}
		pos[key] = len(out)
		out = append(out, diffItem{key: key, name: item.DisplayName(), quantity: item.Quantity})
	}
	return out
}

func findBox(boxes []Box, label string) *Box {
	for i := range boxes {
		if SameBox(boxes[i].Label, label) {
			return &boxes[i]
		}
	}
	return nil
}

// SummarizeChanges 将变更描述以 "; " 拼接
func SummarizeChanges(changes []Change) string {
	parts := make([]string, 0, len(changes))
	for _, change := range changes {
		parts = append(parts, change.Describe())
	}
	return strings.Join(parts, "; ")
}

// EditNote 编辑后写入订单的备注
func EditNote(actor Actor, changes []Change) string {
	name := strings.TrimSpace(actor.UserName)
	if name == "" {
		name = fmt.Sprintf("user #%d", actor.UserID)
	}
	return fmt.Sprintf("Box order edited by %s - %s", name, SummarizeChanges(changes))
}
