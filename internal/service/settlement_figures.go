package service

import (
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
)

// CommissionRates 商户佣金计算参数
type CommissionRates struct {
	DefaultCommissionRate  decimal.Decimal
	BonusThreshold         decimal.Decimal
	BonusRate              decimal.Decimal
	PlatformFeeRate        decimal.Decimal
	TransactionFeePerOrder decimal.Decimal
}

// NewCommissionRates 从配置构建商户佣金参数
func NewCommissionRates(cfg config.SettlementConfig) CommissionRates {
	return CommissionRates{
		DefaultCommissionRate:  models.RoundRate(decimal.NewFromFloat(cfg.DefaultCommissionRate)),
		BonusThreshold:         decimal.NewFromFloat(cfg.BonusThreshold),
		BonusRate:              models.RoundRate(decimal.NewFromFloat(cfg.BonusRate)),
		PlatformFeeRate:        models.RoundRate(decimal.NewFromFloat(cfg.PlatformFeeRate)),
		TransactionFeePerOrder: decimal.NewFromFloat(cfg.TransactionFeePerOrder),
	}
}

// CommissionInputs 商户佣金计算输入
type CommissionInputs struct {
	NetSales        decimal.Decimal
	RefundAmount    decimal.Decimal
	CompletedOrders int64
	CommissionRate  decimal.Decimal
	OtherDeductions decimal.Decimal
	PreviousBalance decimal.Decimal
}

// CommissionFigures 商户佣金计算结果
type CommissionFigures struct {
	BaseCommission  decimal.Decimal
	BonusCommission decimal.Decimal
	TotalCommission decimal.Decimal
	PlatformFee     decimal.Decimal
	TransactionFee  decimal.Decimal
	RefundDeduction decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetCommission   decimal.Decimal
	PreviousBalance decimal.Decimal
	TotalPayable    decimal.Decimal
}

// ComputeCommissionFigures 按 净销售 → 佣金 → 扣减 → 应付 的顺序计算
func ComputeCommissionFigures(in CommissionInputs, rates CommissionRates) CommissionFigures {
	base := percentOf(in.NetSales, in.CommissionRate)
	bonus := decimal.Zero
	if rates.BonusRate.IsPositive() && in.NetSales.GreaterThan(rates.BonusThreshold) {
		bonus = percentOf(in.NetSales, rates.BonusRate)
	}
	totalCommission := base.Add(bonus)

	platformFee := percentOf(in.NetSales, rates.PlatformFeeRate)
	transactionFee := rates.TransactionFeePerOrder.Mul(decimal.NewFromInt(in.CompletedOrders)).Round(2)
	refundDeduction := percentOf(in.RefundAmount, in.CommissionRate)
	other := in.OtherDeductions.Round(2)
	totalDeductions := platformFee.Add(transactionFee).Add(refundDeduction).Add(other)

	netCommission := totalCommission.Sub(totalDeductions)
	previous := in.PreviousBalance.Round(2)
	return CommissionFigures{
		BaseCommission:  base,
		BonusCommission: bonus,
		TotalCommission: totalCommission,
		PlatformFee:     platformFee,
		TransactionFee:  transactionFee,
		RefundDeduction: refundDeduction,
		OtherDeductions: other,
		TotalDeductions: totalDeductions,
		NetCommission:   netCommission,
		PreviousBalance: previous,
		TotalPayable:    netCommission.Add(previous),
	}
}

// SupplierRates 供应商结算参数
type SupplierRates struct {
	DefaultPlatformCommissionRate decimal.Decimal
	TransactionFeePerOrder        decimal.Decimal
	ProcessingFeeRate             decimal.Decimal
	ShippingCostPerOrder          decimal.Decimal
}

// NewSupplierRates 从配置构建供应商结算参数
func NewSupplierRates(cfg config.SettlementConfig) SupplierRates {
	return SupplierRates{
		DefaultPlatformCommissionRate: models.RoundRate(decimal.NewFromFloat(cfg.DefaultPlatformCommissionRate)),
		TransactionFeePerOrder:        decimal.NewFromFloat(cfg.SupplierTransactionFeePerOrder),
		ProcessingFeeRate:             models.RoundRate(decimal.NewFromFloat(cfg.ProcessingFeeRate)),
		ShippingCostPerOrder:          decimal.NewFromFloat(cfg.ShippingCostPerOrder),
	}
}

// SupplierInputs 供应商结算计算输入
type SupplierInputs struct {
	TotalOrders            int64
	CompletedOrders        int64
	ReturnedOrders         int64
	CancelledOrders        int64
	GrossRevenue           decimal.Decimal
	Returns                decimal.Decimal
	SupplierCost           decimal.Decimal
	PlatformCommissionRate decimal.Decimal
	PreviousBalance        decimal.Decimal
}

// SupplierFigures 供应商结算计算结果
type SupplierFigures struct {
	NetRevenue         decimal.Decimal
	GrossMargin        decimal.Decimal
	MarginRate         decimal.Decimal
	PlatformCommission decimal.Decimal
	TransactionFees    decimal.Decimal
	ProcessingFees     decimal.Decimal
	ShippingCosts      decimal.Decimal
	TotalFees          decimal.Decimal
	SupplierEarnings   decimal.Decimal
	PreviousBalance    decimal.Decimal
	TotalPayable       decimal.Decimal
	AverageOrderValue  decimal.Decimal
	ReturnRate         decimal.Decimal
	CancellationRate   decimal.Decimal
	FulfillmentRate    decimal.Decimal
}

// ComputeSupplierFigures 计算供应商结算金额与经营指标
// totalFees 不含平台抽成，平台抽成单独从毛利中扣除。
func ComputeSupplierFigures(in SupplierInputs, rates SupplierRates) SupplierFigures {
	netRevenue := in.GrossRevenue.Sub(in.Returns).Round(2)
	grossMargin := netRevenue.Sub(in.SupplierCost).Round(2)
	marginRate := decimal.Zero
	if netRevenue.IsPositive() {
		marginRate = grossMargin.Div(netRevenue).Mul(hundred).Round(2)
	}

	completed := decimal.NewFromInt(in.CompletedOrders)
	platformCommission := percentOf(grossMargin, in.PlatformCommissionRate)
	transactionFees := rates.TransactionFeePerOrder.Mul(completed).Round(2)
	processingFees := percentOf(netRevenue, rates.ProcessingFeeRate)
	shippingCosts := rates.ShippingCostPerOrder.Mul(completed).Round(2)
	totalFees := transactionFees.Add(processingFees).Add(shippingCosts)

	earnings := grossMargin.Sub(platformCommission).Sub(totalFees)
	previous := in.PreviousBalance.Round(2)

	figures := SupplierFigures{
		NetRevenue:         netRevenue,
		GrossMargin:        grossMargin,
		MarginRate:         marginRate,
		PlatformCommission: platformCommission,
		TransactionFees:    transactionFees,
		ProcessingFees:     processingFees,
		ShippingCosts:      shippingCosts,
		TotalFees:          totalFees,
		SupplierEarnings:   earnings,
		PreviousBalance:    previous,
		TotalPayable:       earnings.Add(previous),
		AverageOrderValue:  decimal.Zero,
		ReturnRate:         decimal.Zero,
		CancellationRate:   decimal.Zero,
		FulfillmentRate:    decimal.Zero,
	}
	if in.CompletedOrders > 0 {
		figures.AverageOrderValue = in.GrossRevenue.Div(completed).Round(2)
	}
	if in.TotalOrders > 0 {
		total := decimal.NewFromInt(in.TotalOrders)
		figures.ReturnRate = ratioPercent(in.ReturnedOrders, total)
		figures.CancellationRate = ratioPercent(in.CancelledOrders, total)
		figures.FulfillmentRate = ratioPercent(in.CompletedOrders, total)
	}
	return figures
}

func ratioPercent(part int64, total decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(part).Div(total).Mul(hundred).Round(2)
}

// carryForwardBalance 计算上期结转金额
// 已付款：结转未付差额；已取消：不结转；其余状态仅结转负数（欠款）。
func carryForwardBalance(status, paidStatus, cancelledStatus string, totalPayable models.Money, paidAmount *models.Money) decimal.Decimal {
	switch status {
	case paidStatus:
		paid := decimal.Zero
		if paidAmount != nil {
			paid = paidAmount.Decimal
		}
		return totalPayable.Sub(paid).Round(2)
	case cancelledStatus:
		return decimal.Zero
	default:
		if totalPayable.IsNegative() {
			return totalPayable.Round(2)
		}
		return decimal.Zero
	}
}

func toMoney(value decimal.Decimal) models.Money {
	return models.NewMoneyFromDecimal(value)
}
