package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/constants"
	"github.com/boxorder-next/internal/models"
)

const (
	defaultOptionBgColor   = "#dd3333"
	defaultOptionTextColor = "#ffffff"
	maxBoxesCeiling        = 100
	maxItemsCeiling        = 500
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	slugCleaner     = regexp.MustCompile(`[^a-z0-9_\-]`)
)

// StatusOption 付款状态 / 取货方式的可配置选项
type StatusOption struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	BgColor   string `json:"bg_color"`
	TextColor string `json:"text_color"`
}

// BoxOrderSetting 分箱订单设置
type BoxOrderSetting struct {
	MaxBoxes            int            `json:"max_boxes"`
	MaxItemsPerBox      int            `json:"max_items_per_box"`
	ClearCartOnSubmit   bool           `json:"clear_cart_on_submit"`
	GuestMode           bool           `json:"guest_mode"`
	AdminEditingEnabled bool           `json:"admin_editing_enabled"`
	PackingListTemplate string         `json:"packing_list_template"`
	AllowedRoles        []string       `json:"allowed_roles"`
	PaymentStatuses     []StatusOption `json:"payment_statuses"`
	CollectionMethods   []StatusOption `json:"collection_methods"`
}

// Limits 校验器使用的上限
func (s BoxOrderSetting) Limits() boxorder.Limits {
	return boxorder.Limits{MaxBoxes: s.MaxBoxes, MaxItemsPerBox: s.MaxItemsPerBox}
}

// RoleAllowed 角色是否可使用分箱下单
func (s BoxOrderSetting) RoleAllowed(role string) bool {
	role = strings.TrimSpace(role)
	for _, allowed := range s.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// PaymentStatus 按 slug 查找付款状态
func (s BoxOrderSetting) PaymentStatus(slug string) (StatusOption, bool) {
	return findOption(s.PaymentStatuses, slug)
}

// CollectionMethod 按 slug 查找取货方式
func (s BoxOrderSetting) CollectionMethod(slug string) (StatusOption, bool) {
	return findOption(s.CollectionMethods, slug)
}

func findOption(options []StatusOption, slug string) (StatusOption, bool) {
	slug = strings.TrimSpace(slug)
	for _, opt := range options {
		if opt.Slug == slug {
			return opt, true
		}
	}
	return StatusOption{}, false
}

// DefaultPaymentStatuses 默认付款状态
func DefaultPaymentStatuses() []StatusOption {
	return []StatusOption{
		{Slug: constants.PaymentStatusDone, Label: "Done Payment", BgColor: "#74d62f", TextColor: "#ffffff"},
		{Slug: constants.PaymentStatusCashCashier, Label: "Cash di Cashier", BgColor: "#dd3333", TextColor: "#ffffff"},
		{Slug: constants.PaymentStatusCOD, Label: "Cash on Delivery (COD)", BgColor: "#dd3333", TextColor: "#ffffff"},
		{Slug: constants.PaymentStatusPendingPayment, Label: "Pending Payment", BgColor: "#dd3333", TextColor: "#ffffff"},
		{Slug: constants.PaymentStatusPartial, Label: "Partial Payment", BgColor: "#eeee22", TextColor: "#555555"},
	}
}

// DefaultCollectionMethods 默认取货方式
func DefaultCollectionMethods() []StatusOption {
	return []StatusOption{
		{Slug: constants.CollectionPostage, Label: "Postage", BgColor: "#f760ed", TextColor: "#ffffff"},
		{Slug: constants.CollectionPickupHQ, Label: "Pickup - HQ", BgColor: "#eeee22", TextColor: "#555555"},
		{Slug: constants.CollectionPickupTerengganu, Label: "Pickup - Terengganu", BgColor: "#1e73be", TextColor: "#ffffff"},
		{Slug: constants.CollectionRunnerDelivered, Label: "Runner Delivered", BgColor: "#8224e3", TextColor: "#ffffff"},
	}
}

// BoxOrderDefaultSetting 由配置文件生成默认设置
func BoxOrderDefaultSetting(cfg config.BoxConfig) BoxOrderSetting {
	return NormalizeBoxOrderSetting(BoxOrderSetting{
		MaxBoxes:            cfg.MaxBoxes,
		MaxItemsPerBox:      cfg.MaxItemsPerBox,
		ClearCartOnSubmit:   cfg.ClearCartOnSubmit,
		GuestMode:           cfg.GuestMode,
		AdminEditingEnabled: cfg.AdminEditingEnabled,
		PackingListTemplate: cfg.PackingTemplate,
		AllowedRoles:        append([]string(nil), cfg.AllowedRoles...),
		PaymentStatuses:     DefaultPaymentStatuses(),
		CollectionMethods:   DefaultCollectionMethods(),
	})
}

// NormalizeBoxOrderSetting 归一化：上限至少为 1，去除空白与重复 slug
func NormalizeBoxOrderSetting(s BoxOrderSetting) BoxOrderSetting {
	defaults := boxorder.DefaultLimits()
	s.MaxBoxes = clampPositive(s.MaxBoxes, defaults.MaxBoxes, maxBoxesCeiling)
	s.MaxItemsPerBox = clampPositive(s.MaxItemsPerBox, defaults.MaxItemsPerBox, maxItemsCeiling)

	switch strings.TrimSpace(s.PackingListTemplate) {
	case constants.PackingTemplateCompact:
		s.PackingListTemplate = constants.PackingTemplateCompact
	default:
		s.PackingListTemplate = constants.PackingTemplateDefault
	}

	roles := make([]string, 0, len(s.AllowedRoles))
	seen := make(map[string]struct{}, len(s.AllowedRoles))
	for _, role := range s.AllowedRoles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	s.AllowedRoles = roles

	s.PaymentStatuses = normalizeOptions(s.PaymentStatuses)
	s.CollectionMethods = normalizeOptions(s.CollectionMethods)
	return s
}

func normalizeOptions(options []StatusOption) []StatusOption {
	result := make([]StatusOption, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		slug := normalizeSlug(opt.Slug)
		label := strings.TrimSpace(opt.Label)
		if slug == "" || label == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		result = append(result, StatusOption{
			Slug:      slug,
			Label:     label,
			BgColor:   normalizeHexColor(opt.BgColor, defaultOptionBgColor),
			TextColor: normalizeHexColor(opt.TextColor, defaultOptionTextColor),
		})
	}
	return result
}

func normalizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	return slugCleaner.ReplaceAllString(slug, "")
}

func normalizeHexColor(raw, fallback string) string {
	color := strings.TrimSpace(raw)
	if hexColorPattern.MatchString(color) {
		return strings.ToLower(color)
	}
	return fallback
}

func clampPositive(value, fallback, ceiling int) int {
	if value < 1 {
		return fallback
	}
	if value > ceiling {
		return ceiling
	}
	return value
}

// boxOrderSettingFromJSON 以 fallback 为底，合并库中存储的字段
func boxOrderSettingFromJSON(raw models.JSON, fallback BoxOrderSetting) BoxOrderSetting {
	if len(raw) == 0 {
		return fallback
	}
	merged := BoxOrderSettingToMap(fallback)
	for key, value := range raw {
		merged[key] = value
	}
	payload, err := json.Marshal(merged)
	if err != nil {
		return fallback
	}
	var parsed BoxOrderSetting
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return coerceBoxOrderSetting(merged, fallback)
	}
	return NormalizeBoxOrderSetting(parsed)
}

// coerceBoxOrderSetting 逐字段解析，兼容表单提交的字符串数字
func coerceBoxOrderSetting(raw models.JSON, fallback BoxOrderSetting) BoxOrderSetting {
	result := fallback
	if v, err := parseSettingInt(raw["max_boxes"]); err == nil {
		result.MaxBoxes = v
	}
	if v, err := parseSettingInt(raw["max_items_per_box"]); err == nil {
		result.MaxItemsPerBox = v
	}
	if v, ok := parseSettingBool(raw["clear_cart_on_submit"]); ok {
		result.ClearCartOnSubmit = v
	}
	if v, ok := parseSettingBool(raw["guest_mode"]); ok {
		result.GuestMode = v
	}
	if v, ok := parseSettingBool(raw["admin_editing_enabled"]); ok {
		result.AdminEditingEnabled = v
	}
	if v, ok := raw["packing_list_template"].(string); ok {
		result.PackingListTemplate = v
	}
	return NormalizeBoxOrderSetting(result)
}

// BoxOrderSettingToMap 转为存储结构
func BoxOrderSettingToMap(s BoxOrderSetting) models.JSON {
	payload, err := json.Marshal(s)
	if err != nil {
		return models.JSON{}
	}
	var out models.JSON
	if err := json.Unmarshal(payload, &out); err != nil {
		return models.JSON{}
	}
	return out
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.Atoi(trimmed)
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}

func parseSettingBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off", "":
			return false, true
		}
	case float64:
		return v != 0, true
	}
	return false, false
}
