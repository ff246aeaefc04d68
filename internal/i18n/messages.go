package i18n

var messagesEN = map[string]string{
	"error.bad_request":               "Invalid request.",
	"error.unauthorized":              "Please log in first.",
	"error.auth_header_missing":       "Missing Authorization header.",
	"error.auth_header_invalid":       "Malformed Authorization header.",
	"error.token_invalid":             "Invalid or expired token.",
	"error.token_revoked":             "Token has been revoked, please log in again.",
	"error.forbidden":                 "You do not have permission to perform this action.",
	"error.not_found":                 "Resource not found.",
	"error.internal":                  "Internal server error.",
	"error.too_many_requests":         "Too many requests, please try again later.",
	"error.rate_limit_unavailable":    "Rate limiter unavailable, please try again later.",
	"error.rate_limited":              "Too many requests, please retry in %d seconds.",
	"error.login_failed":              "Invalid username or password.",
	"error.captcha_required":          "Please complete the captcha.",
	"error.captcha_invalid":           "Captcha is incorrect or expired.",
	"error.captcha_unavailable":       "Captcha is not enabled.",
	"error.session_required":          "A box session is required.",
	"error.role_not_allowed":          "Your role may not place box orders.",
	"error.guest_mode_disabled":       "Please log in to place a box order.",
	"error.order_not_found":           "Order not found.",
	"error.not_box_order":             "This order is not a box order.",
	"error.box_editing_disabled":      "Box editing is disabled.",
	"error.no_pending_boxes":          "No pending boxes for this session. Please submit the order form again.",
	"error.customer_not_found":        "Customer not found.",
	"error.billing_required":          "Billing name and email are required for guest orders.",
	"error.invalid_payment_status":    "Unknown payment status.",
	"error.invalid_collection_method": "Unknown collection method.",
	"error.invalid_sort":              "Unsupported sort field or direction.",
	"error.invalid_pickup_date":       "Pickup/COD date must be YYYY-MM-DD.",
	"error.invalid_pickup_time":       "Pickup/COD time must be HH:MM.",
	"error.setting_invalid":           "Invalid settings.",
	"error.invalid_order_status":      "Unknown order status.",

	"email.box_order_created.subject": "[%s] New box order %s",
	"email.box_order_created.body":    "A new box order %s was placed by %s.\nTotal: %s %s\n\n%s",
	"email.box_order_edited.subject":  "[%s] Box order %s edited",
	"email.box_order_edited.body":     "Box order %s was edited by %s.\nChanges: %s\nTotal: %s %s\n\n%s",
}

var messagesZH = map[string]string{
	"error.bad_request":               "请求参数错误",
	"error.unauthorized":              "请先登录",
	"error.auth_header_missing":       "缺少 Authorization 请求头",
	"error.auth_header_invalid":       "Authorization 格式错误",
	"error.token_invalid":             "令牌无效或已过期",
	"error.token_revoked":             "令牌已失效，请重新登录",
	"error.forbidden":                 "无权限执行该操作",
	"error.not_found":                 "资源不存在",
	"error.internal":                  "服务器内部错误",
	"error.too_many_requests":         "请求过于频繁，请稍后再试",
	"error.rate_limit_unavailable":    "限流服务不可用，请稍后再试",
	"error.rate_limited":              "请求过于频繁，请在 %d 秒后重试",
	"error.login_failed":              "用户名或密码错误",
	"error.captcha_required":          "请完成验证码",
	"error.captcha_invalid":           "验证码错误或已过期",
	"error.captcha_unavailable":       "验证码未启用",
	"error.session_required":          "缺少分箱会话",
	"error.role_not_allowed":          "当前角色不允许提交分箱订单",
	"error.guest_mode_disabled":       "请登录后再提交分箱订单",
	"error.order_not_found":           "订单不存在",
	"error.not_box_order":             "该订单不是分箱订单",
	"error.box_editing_disabled":      "分箱编辑未开启",
	"error.no_pending_boxes":          "当前会话没有待结账的分箱数据，请重新提交",
	"error.customer_not_found":        "客户不存在",
	"error.billing_required":          "访客订单需要填写姓名与邮箱",
	"error.invalid_payment_status":    "未知的付款状态",
	"error.invalid_collection_method": "未知的取货方式",
	"error.invalid_sort":              "不支持的排序字段或方向",
	"error.invalid_pickup_date":       "自取/货到付款日期格式应为 YYYY-MM-DD",
	"error.invalid_pickup_time":       "自取/货到付款时间格式应为 HH:MM",
	"error.setting_invalid":           "设置参数不合法",
	"error.invalid_order_status":      "未知的订单状态",

	"email.box_order_created.subject": "[%s] 新分箱订单 %s",
	"email.box_order_created.body":    "分箱订单 %s 已由 %s 提交。\n合计：%s %s\n\n%s",
	"email.box_order_edited.subject":  "[%s] 分箱订单 %s 已修改",
	"email.box_order_edited.body":     "分箱订单 %s 已由 %s 修改。\n变更：%s\n合计：%s %s\n\n%s",
}
