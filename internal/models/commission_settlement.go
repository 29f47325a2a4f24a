package models

import "time"

// CommissionSettlement 供应商月度结算单
// 每个供应商每个周期仅一条记录，由 (supplier_id, period) 唯一约束保证。
type CommissionSettlement struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	SupplierID     uint      `gorm:"not null;index;uniqueIndex:idx_commission_settlement_period" json:"supplierId"`
	Period         string    `gorm:"type:varchar(7);not null;index;uniqueIndex:idx_commission_settlement_period" json:"period"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	EndDate        time.Time `gorm:"not null" json:"endDate"`
	SettlementDate time.Time `gorm:"not null" json:"settlementDate"`

	// 订单统计
	TotalOrders        int64 `gorm:"not null;default:0" json:"totalOrders"`
	CompletedOrders    int64 `gorm:"not null;default:0" json:"completedOrders"`
	ReturnedOrders     int64 `gorm:"not null;default:0" json:"returnedOrders"`
	CancelledOrders    int64 `gorm:"not null;default:0" json:"cancelledOrders"`
	TotalProductsSold  int64 `gorm:"not null;default:0" json:"totalProductsSold"`
	UniqueProductsSold int64 `gorm:"not null;default:0" json:"uniqueProductsSold"`

	// 收入
	GrossRevenue Money `gorm:"type:decimal(20,2);not null;default:0" json:"grossRevenue"`
	Returns      Money `gorm:"type:decimal(20,2);not null;default:0" json:"returns"`
	NetRevenue   Money `gorm:"type:decimal(20,2);not null;default:0" json:"netRevenue"`
	SupplierCost Money `gorm:"type:decimal(20,2);not null;default:0" json:"supplierCost"`
	GrossMargin  Money `gorm:"type:decimal(20,2);not null;default:0" json:"grossMargin"`
	MarginRate   Money `gorm:"type:decimal(10,2);not null;default:0" json:"marginRate"`

	// 费用
	PlatformCommissionRate Rate  `gorm:"type:decimal(10,4);not null;default:0" json:"platformCommissionRate"`
	PlatformCommission     Money `gorm:"type:decimal(20,2);not null;default:0" json:"platformCommission"`
	TransactionFees        Money `gorm:"type:decimal(20,2);not null;default:0" json:"transactionFees"`
	ProcessingFees         Money `gorm:"type:decimal(20,2);not null;default:0" json:"processingFees"`
	ShippingCosts          Money `gorm:"type:decimal(20,2);not null;default:0" json:"shippingCosts"`
	TotalFees              Money `gorm:"type:decimal(20,2);not null;default:0" json:"totalFees"`

	// 最终金额
	SupplierEarnings Money `gorm:"type:decimal(20,2);not null;default:0" json:"supplierEarnings"`
	PreviousBalance  Money `gorm:"type:decimal(20,2);not null;default:0" json:"previousBalance"`
	TotalPayable     Money `gorm:"type:decimal(20,2);not null;default:0" json:"totalPayable"`

	// 经营指标
	AverageOrderValue Money `gorm:"type:decimal(20,2);not null;default:0" json:"averageOrderValue"`
	ReturnRate        Money `gorm:"type:decimal(10,2);not null;default:0" json:"returnRate"`
	CancellationRate  Money `gorm:"type:decimal(10,2);not null;default:0" json:"cancellationRate"`
	FulfillmentRate   Money `gorm:"type:decimal(10,2);not null;default:0" json:"fulfillmentRate"`

	// 状态与审批
	Status        string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ApprovedBy    string     `gorm:"type:varchar(64)" json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	ApprovalNotes string     `gorm:"type:text" json:"approvalNotes,omitempty"`

	// 付款
	PaymentMethod    string     `gorm:"type:varchar(64)" json:"paymentMethod,omitempty"`
	PaymentReference string     `gorm:"type:varchar(128)" json:"paymentReference,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	PaidAmount       *Money     `gorm:"type:decimal(20,2)" json:"paidAmount,omitempty"`
	FailureReason    string     `gorm:"type:text" json:"failureReason,omitempty"`

	// 争议
	HasDispute        bool       `gorm:"not null;default:false;index" json:"hasDispute"`
	DisputeReason     string     `gorm:"type:text" json:"disputeReason,omitempty"`
	DisputedAt        *time.Time `json:"disputedAt,omitempty"`
	DisputeResolvedAt *time.Time `json:"disputeResolvedAt,omitempty"`
	DisputeResolution string     `gorm:"type:text" json:"disputeResolution,omitempty"`

	// 调整
	Adjustments      Adjustments `gorm:"type:json" json:"adjustments"`
	TotalAdjustments Money       `gorm:"type:decimal(20,2);not null;default:0" json:"totalAdjustments"`

	StatementNumber string    `gorm:"type:varchar(64);index" json:"statementNumber"`
	Currency        string    `gorm:"type:varchar(8);not null;default:'KRW'" json:"currency"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (CommissionSettlement) TableName() string {
	return "commission_settlements"
}
