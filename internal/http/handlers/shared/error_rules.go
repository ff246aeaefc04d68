package shared

import (
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/service"
)

// BoxOrderErrorRules 分箱订单相关的通用错误映射
var BoxOrderErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrNotBoxOrder, Code: response.CodeBadRequest, Key: "error.not_box_order"},
	{Target: service.ErrBoxEditingDisabled, Code: response.CodeForbidden, Key: "error.box_editing_disabled"},
	{Target: service.ErrNoPendingBoxes, Code: response.CodeBadRequest, Key: "error.no_pending_boxes"},
	{Target: service.ErrSessionRequired, Code: response.CodeBadRequest, Key: "error.session_required"},
	{Target: service.ErrRoleNotAllowed, Code: response.CodeForbidden, Key: "error.role_not_allowed"},
	{Target: service.ErrGuestModeDisabled, Code: response.CodeUnauthorized, Key: "error.guest_mode_disabled"},
	{Target: service.ErrCustomerNotFound, Code: response.CodeNotFound, Key: "error.customer_not_found"},
	{Target: service.ErrBillingRequired, Code: response.CodeBadRequest, Key: "error.billing_required"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest, Key: "error.invalid_order_status"},
	{Target: service.ErrInvalidListSort, Code: response.CodeBadRequest, Key: "error.invalid_sort"},
}

// FulfillmentErrorRules 付款状态 / 取货信息错误映射
var FulfillmentErrorRules = []MappedError{
	{Target: service.ErrInvalidPaymentStatus, Code: response.CodeBadRequest, Key: "error.invalid_payment_status"},
	{Target: service.ErrInvalidCollection, Code: response.CodeBadRequest, Key: "error.invalid_collection_method"},
	{Target: service.ErrInvalidPickupDate, Code: response.CodeBadRequest, Key: "error.invalid_pickup_date"},
	{Target: service.ErrInvalidPickupTime, Code: response.CodeBadRequest, Key: "error.invalid_pickup_time"},
}

// CaptchaErrorRules 验证码错误映射
var CaptchaErrorRules = []MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaUnavailable, Code: response.CodeBadRequest, Key: "error.captcha_unavailable"},
}

// ConcatMappedErrors 合并多组映射规则
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
