package constants

// 上游订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// 费率策略类型常量
const (
	FeePolicyTypePlatform      = "platform"
	FeePolicyTypeCategory      = "category"
	FeePolicyTypeVendorTier    = "vendor_tier"
	FeePolicyTypePaymentMethod = "payment_method"
)

// 费用明细中的支付处理费类型
const FeeBreakdownTypePaymentProcessor = "payment_processor"

// 费率条件字段常量
const (
	FeeConditionKeyCategoryID    = "categoryId"
	FeeConditionKeyVendorTier    = "vendorTier"
	FeeConditionKeyPaymentMethod = "paymentMethod"
	FeeConditionKeyOrderAmount   = "orderAmount"
)

// 费率条件运算符常量
const (
	FeeConditionOpEquals      = "equals"
	FeeConditionOpGreaterThan = "greater_than"
	FeeConditionOpLessThan    = "less_than"
	FeeConditionOpIn          = "in"
	FeeConditionOpNotIn       = "not_in"
)

// 供应商/商户主体状态
const (
	PartnerStatusActive   = "active"
	PartnerStatusInactive = "inactive"
)

// 商户佣金结算状态常量
const (
	CommissionStatusDraft     = "draft"
	CommissionStatusPending   = "pending"
	CommissionStatusApproved  = "approved"
	CommissionStatusPaid      = "paid"
	CommissionStatusDisputed  = "disputed"
	CommissionStatusCancelled = "cancelled"
)

// 供应商结算单状态常量
const (
	SettlementStatusDraft      = "draft"
	SettlementStatusPending    = "pending"
	SettlementStatusApproved   = "approved"
	SettlementStatusProcessing = "processing"
	SettlementStatusPaid       = "paid"
	SettlementStatusFailed     = "failed"
	SettlementStatusDisputed   = "disputed"
)

// 调整记录类型
const (
	AdjustmentTypeCredit = "credit"
	AdjustmentTypeDebit  = "debit"
)

// 门店渠道类型常量
const (
	ChannelTypeB2C     = "B2C"
	ChannelTypeKiosk   = "KIOSK"
	ChannelTypeTablet  = "TABLET"
	ChannelTypeSignage = "SIGNAGE"
)

// 门店渠道状态常量
const (
	ChannelStatusPending   = "PENDING"
	ChannelStatusApproved  = "APPROVED"
	ChannelStatusRejected  = "REJECTED"
	ChannelStatusSuspended = "SUSPENDED"
)

// 电子屏内容状态
const (
	SignageStatusActive   = "active"
	SignageStatusDraft    = "draft"
	SignageStatusArchived = "archived"
)

// Store Hub 数据分区
const (
	StoreHubSectionProducts        = "products"
	StoreHubSectionContents        = "contents"
	StoreHubSectionSignage         = "signage"
	StoreHubSectionTodayOrders     = "today_orders"
	StoreHubSectionWeekOrders      = "week_orders"
	StoreHubSectionMonthOrders     = "month_orders"
	StoreHubSectionMonthRevenue    = "month_revenue"
	StoreHubSectionLastMonth       = "last_month_revenue"
	StoreHubSectionOrdersLastHour  = "orders_last_hour"
	StoreHubSectionPendingOrders   = "pending_orders"
	StoreHubSectionPendingChannels = "pending_channels"
	StoreHubSectionActiveSignage   = "active_signage"
)

// 队列与任务常量
const (
	QueueDefault                  = "default"
	QueueCritical                 = "critical"
	TaskSettlementPeriodClose     = "settlement:period_close"
	TaskVendorCommissionCompute   = "settlement:vendor_commission"
	TaskSupplierSettlementCompute = "settlement:supplier_settlement"
)
