package constants

// 商品状态常量
const (
	ProductStatusAvailable = "available"
	ProductStatusSold      = "sold"
	ProductStatusWithdrawn = "withdrawn"
)

// 商品成色常量
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like-new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
)

// 购买记录状态常量
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
	PurchaseStatusRefunded  = "refunded"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 异步任务类型
const (
	TaskPurchaseCreated = "purchase:created"
	TaskCartPruneSold   = "cart:prune_sold"
)

// 异步队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 领域事件类型
const (
	EventPurchaseCreated = "purchase.created"
)

// 验证码场景
const (
	CaptchaSceneLogin      = "login"
	CaptchaSceneRegister   = "register"
	CaptchaSceneAdminLogin = "admin_login"
)

// 购物车校验原因
const (
	CartReasonSold        = "Product has been sold"
	CartReasonUnavailable = "Product is no longer available"
)
