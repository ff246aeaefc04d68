package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusOnHold     = "on-hold"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// 角色常量
const (
	RoleSalesAgent      = "sales_agent"
	RoleShopManager     = "shop_manager"
	RoleReadonlyAuditor = "readonly_auditor"
)

// 设置键
const (
	SettingKeyBoxOrder = "box_order"
)

// 装箱单模板
const (
	PackingTemplateDefault = "default"
	PackingTemplateCompact = "compact"
)

// 默认付款状态（slug）
const (
	PaymentStatusDone           = "done"
	PaymentStatusCashCashier    = "cash_cashier"
	PaymentStatusCOD            = "cod"
	PaymentStatusPendingPayment = "pending_payment"
	PaymentStatusPartial        = "partial"
)

// 默认取货方式（slug）
const (
	CollectionPostage          = "postage"
	CollectionPickupHQ         = "pickup_hq"
	CollectionPickupTerengganu = "pickup_terengganu"
	CollectionRunnerDelivered  = "runner_delivered"
)

// 上下文键
const (
	ContextKeyAdminID   = "admin_id"
	ContextKeyUsername  = "username"
	ContextKeyAdminName = "admin_name"
	ContextKeyAdminRole = "admin_role"
	ContextKeyIsSuper   = "admin_is_super"
	ContextKeyRequestID = "request_id"
)

// 请求头
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderBoxSession = "X-Box-Session"
)

// 队列名称
const (
	QueueDefault = "default"
	QueueNotify  = "notify"
)

// 异步任务类型
const (
	TaskBoxOrderCreated = "box_order:created"
	TaskBoxOrderEdited  = "box_order:edited"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
