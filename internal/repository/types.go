package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeePolicyListFilter 查询费率策略列表的过滤条件
type FeePolicyListFilter struct {
	Page     int
	PageSize int
	Type     string
	Search   string
	IsActive *bool
}

// VendorCommissionListFilter 查询商户佣金列表的过滤条件
type VendorCommissionListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	Status   string
	Period   string
}

// SettlementListFilter 查询供应商结算列表的过滤条件
type SettlementListFilter struct {
	Page       int
	PageSize   int
	SupplierID uint
	Status     string
	Period     string
}

// AuthzAuditLogListFilter 查询权限审计日志的过滤条件
type AuthzAuditLogListFilter struct {
	Page           int
	PageSize       int
	OperatorUserID uint
	Action         string
	Role           string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// VendorOrderAggregate 商户周期订单聚合结果
type VendorOrderAggregate struct {
	TotalOrders     int64
	CompletedOrders int64
	CancelledOrders int64
	RefundedOrders  int64
	GrossSales      decimal.Decimal
	RefundAmount    decimal.Decimal
}

// SupplierItemAggregate 供应商周期订单明细聚合结果
type SupplierItemAggregate struct {
	TotalOrders        int64
	CompletedOrders    int64
	ReturnedOrders     int64
	CancelledOrders    int64
	TotalProductsSold  int64
	UniqueProductsSold int64
	GrossRevenue       decimal.Decimal
	Returns            decimal.Decimal
	SupplierCost       decimal.Decimal
}
