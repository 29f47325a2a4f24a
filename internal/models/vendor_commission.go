package models

import "time"

// Adjustment 结算金额调整记录
type Adjustment struct {
	Date      time.Time `json:"date"`
	Type      string    `json:"type"` // credit / debit
	Amount    Money     `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"createdBy"`
}

// VendorCommission 商户月度佣金结算表
// 每个商户每个周期仅一条记录，由 (vendor_id, period) 唯一约束保证。
type VendorCommission struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VendorID  uint      `gorm:"not null;index;uniqueIndex:idx_vendor_commission_period" json:"vendorId"`
	Period    string    `gorm:"type:varchar(7);not null;index;uniqueIndex:idx_vendor_commission_period" json:"period"` // YYYY-MM
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	// 销售数据
	TotalOrders     int64 `gorm:"not null;default:0" json:"totalOrders"`
	CompletedOrders int64 `gorm:"not null;default:0" json:"completedOrders"`
	CancelledOrders int64 `gorm:"not null;default:0" json:"cancelledOrders"`
	RefundedOrders  int64 `gorm:"not null;default:0" json:"refundedOrders"`
	GrossSales      Money `gorm:"type:decimal(20,2);not null;default:0" json:"grossSales"`
	NetSales        Money `gorm:"type:decimal(20,2);not null;default:0" json:"netSales"`
	RefundAmount    Money `gorm:"type:decimal(20,2);not null;default:0" json:"refundAmount"`

	// 佣金
	CommissionRate  Rate  `gorm:"type:decimal(10,4);not null;default:0" json:"commissionRate"`
	BaseCommission  Money `gorm:"type:decimal(20,2);not null;default:0" json:"baseCommission"`
	BonusCommission Money `gorm:"type:decimal(20,2);not null;default:0" json:"bonusCommission"`
	TotalCommission Money `gorm:"type:decimal(20,2);not null;default:0" json:"totalCommission"`

	// 扣减
	PlatformFee     Money `gorm:"type:decimal(20,2);not null;default:0" json:"platformFee"`
	TransactionFee  Money `gorm:"type:decimal(20,2);not null;default:0" json:"transactionFee"`
	RefundDeduction Money `gorm:"type:decimal(20,2);not null;default:0" json:"refundDeduction"`
	OtherDeductions Money `gorm:"type:decimal(20,2);not null;default:0" json:"otherDeductions"`
	TotalDeductions Money `gorm:"type:decimal(20,2);not null;default:0" json:"totalDeductions"`

	// 最终金额
	NetCommission   Money `gorm:"type:decimal(20,2);not null;default:0" json:"netCommission"`
	PreviousBalance Money `gorm:"type:decimal(20,2);not null;default:0" json:"previousBalance"`
	TotalPayable    Money `gorm:"type:decimal(20,2);not null;default:0" json:"totalPayable"`

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

	// 争议
	IsDisputed        bool       `gorm:"not null;default:false;index" json:"isDisputed"`
	DisputeReason     string     `gorm:"type:text" json:"disputeReason,omitempty"`
	DisputedAt        *time.Time `json:"disputedAt,omitempty"`
	DisputeResolvedAt *time.Time `json:"disputeResolvedAt,omitempty"`
	DisputeResolution string     `gorm:"type:text" json:"disputeResolution,omitempty"`

	// 调整
	Adjustments      Adjustments `gorm:"type:json" json:"adjustments"`
	TotalAdjustments Money       `gorm:"type:decimal(20,2);not null;default:0" json:"totalAdjustments"`

	InvoiceNumber      string    `gorm:"type:varchar(64);index" json:"invoiceNumber"`
	Currency           string    `gorm:"type:varchar(8);not null;default:'KRW'" json:"currency"`
	CalculationDetails JSON      `gorm:"type:json" json:"calculationDetails,omitempty"`
	CreatedAt          time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (VendorCommission) TableName() string {
	return "vendor_commissions"
}
