package repository

import (
	"context"
	"time"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementSourceRepository 结算数据源聚合接口
// 说明：只读取上游订单数据，不承载结算规则。
type SettlementSourceRepository interface {
	AggregateVendorOrders(ctx context.Context, vendorID uint, startAt, endAt time.Time) (VendorOrderAggregate, error)
	AggregateSupplierItems(ctx context.Context, supplierID uint, startAt, endAt time.Time) (SupplierItemAggregate, error)
}

// GormSettlementSourceRepository GORM 聚合实现
type GormSettlementSourceRepository struct {
	db *gorm.DB
}

// NewSettlementSourceRepository 创建结算数据源仓库
func NewSettlementSourceRepository(db *gorm.DB) *GormSettlementSourceRepository {
	return &GormSettlementSourceRepository{db: db}
}

type orderStatusRow struct {
	Status string
	Orders int64
	Amount decimal.NullDecimal
}

// AggregateVendorOrders 按状态汇总商户在窗口 [startAt, endAt) 内的订单
func (r *GormSettlementSourceRepository) AggregateVendorOrders(ctx context.Context, vendorID uint, startAt, endAt time.Time) (VendorOrderAggregate, error) {
	result := VendorOrderAggregate{GrossSales: decimal.Zero, RefundAmount: decimal.Zero}

	var rows []orderStatusRow
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, SUM(total_amount) AS amount").
		Where("vendor_id = ?", vendorID)
	err := timeWindow(query, "created_at", startAt, endAt).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		result.TotalOrders += row.Orders
		amount := decimal.Zero
		if row.Amount.Valid {
			amount = row.Amount.Decimal
		}
		switch row.Status {
		case constants.OrderStatusCompleted:
			result.CompletedOrders += row.Orders
			result.GrossSales = result.GrossSales.Add(amount)
		case constants.OrderStatusCancelled:
			result.CancelledOrders += row.Orders
		case constants.OrderStatusRefunded:
			result.RefundedOrders += row.Orders
			result.RefundAmount = result.RefundAmount.Add(amount)
		}
	}
	result.GrossSales = result.GrossSales.Round(2)
	result.RefundAmount = result.RefundAmount.Round(2)
	return result, nil
}

type supplierItemRow struct {
	Status   string
	Orders   int64
	Quantity int64
	Products int64
	Revenue  decimal.NullDecimal
	Cost     decimal.NullDecimal
}

// AggregateSupplierItems 按订单状态汇总供应商在窗口 [startAt, endAt) 内的订单明细
func (r *GormSettlementSourceRepository) AggregateSupplierItems(ctx context.Context, supplierID uint, startAt, endAt time.Time) (SupplierItemAggregate, error) {
	result := SupplierItemAggregate{GrossRevenue: decimal.Zero, Returns: decimal.Zero, SupplierCost: decimal.Zero}

	var rows []supplierItemRow
	query := r.db.WithContext(ctx).Table("order_items AS oi").
		Select(`o.status AS status,
			COUNT(DISTINCT o.id) AS orders,
			SUM(oi.quantity) AS quantity,
			COUNT(DISTINCT oi.product_id) AS products,
			SUM(oi.unit_price * oi.quantity) AS revenue,
			SUM(oi.unit_cost * oi.quantity) AS cost`).
		Joins("JOIN orders AS o ON o.id = oi.order_id").
		Where("oi.supplier_id = ?", supplierID)
	err := timeWindow(query, "o.created_at", startAt, endAt).
		Group("o.status").
		Scan(&rows).Error
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		result.TotalOrders += row.Orders
		switch row.Status {
		case constants.OrderStatusCompleted:
			result.CompletedOrders += row.Orders
			result.TotalProductsSold += row.Quantity
			result.UniqueProductsSold += row.Products
			if row.Revenue.Valid {
				result.GrossRevenue = result.GrossRevenue.Add(row.Revenue.Decimal)
			}
			if row.Cost.Valid {
				result.SupplierCost = result.SupplierCost.Add(row.Cost.Decimal)
			}
		case constants.OrderStatusRefunded:
			result.ReturnedOrders += row.Orders
			if row.Revenue.Valid {
				result.Returns = result.Returns.Add(row.Revenue.Decimal)
			}
		case constants.OrderStatusCancelled:
			result.CancelledOrders += row.Orders
		}
	}
	result.GrossRevenue = result.GrossRevenue.Round(2)
	result.Returns = result.Returns.Round(2)
	result.SupplierCost = result.SupplierCost.Round(2)
	return result, nil
}
