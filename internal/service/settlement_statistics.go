package service

import (
	"context"
	"time"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PayableComparison 本期与上期应付对比
type PayableComparison struct {
	Current    models.Money `json:"current"`
	Previous   models.Money `json:"previous"`
	ChangeRate models.Money `json:"changeRate"`
}

// SettlementStatistics 结算概览统计
type SettlementStatistics struct {
	CurrentPeriod          string            `json:"currentPeriod"`
	PreviousPeriod         string            `json:"previousPeriod"`
	VendorPayable          PayableComparison `json:"vendorPayable"`
	SupplierPayable        PayableComparison `json:"supplierPayable"`
	PendingVendorPayable   models.Money      `json:"pendingVendorPayable"`
	PendingSupplierPayable models.Money      `json:"pendingSupplierPayable"`
	TotalPending           models.Money      `json:"totalPending"`
}

// SettlementStatisticsService 结算统计服务
type SettlementStatisticsService struct {
	vendorRepo   repository.VendorCommissionRepository
	supplierRepo repository.CommissionSettlementRepository
	loc          *time.Location
}

// NewSettlementStatisticsService 创建结算统计服务
func NewSettlementStatisticsService(vendorRepo repository.VendorCommissionRepository, supplierRepo repository.CommissionSettlementRepository, loc *time.Location) *SettlementStatisticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &SettlementStatisticsService{vendorRepo: vendorRepo, supplierRepo: supplierRepo, loc: loc}
}

// GetStatistics 汇总本期 / 上期应付与待付款总额，任一查询失败即整体失败
func (s *SettlementStatisticsService) GetStatistics(ctx context.Context, now time.Time) (*SettlementStatistics, error) {
	current := PeriodOf(now, s.loc)
	previous := current.Previous()
	approvedVendor := []string{constants.CommissionStatusApproved}
	approvedSupplier := []string{constants.SettlementStatusApproved}

	var (
		vendorCurrent, vendorPrevious     decimal.Decimal
		supplierCurrent, supplierPrevious decimal.Decimal
		vendorPending, supplierPending    decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendorCurrent, err = s.vendorRepo.SumTotalPayable(gctx, current.Key, nil)
		return err
	})
	g.Go(func() error {
		var err error
		vendorPrevious, err = s.vendorRepo.SumTotalPayable(gctx, previous.Key, nil)
		return err
	})
	g.Go(func() error {
		var err error
		supplierCurrent, err = s.supplierRepo.SumTotalPayable(gctx, current.Key, nil)
		return err
	})
	g.Go(func() error {
		var err error
		supplierPrevious, err = s.supplierRepo.SumTotalPayable(gctx, previous.Key, nil)
		return err
	})
	g.Go(func() error {
		var err error
		vendorPending, err = s.vendorRepo.SumTotalPayable(gctx, "", approvedVendor)
		return err
	})
	g.Go(func() error {
		var err error
		supplierPending, err = s.supplierRepo.SumTotalPayable(gctx, "", approvedSupplier)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SettlementStatistics{
		CurrentPeriod:          current.Key,
		PreviousPeriod:         previous.Key,
		VendorPayable:          comparePayable(vendorCurrent, vendorPrevious),
		SupplierPayable:        comparePayable(supplierCurrent, supplierPrevious),
		PendingVendorPayable:   toMoney(vendorPending),
		PendingSupplierPayable: toMoney(supplierPending),
		TotalPending:           toMoney(vendorPending.Add(supplierPending)),
	}, nil
}

func comparePayable(current, previous decimal.Decimal) PayableComparison {
	return PayableComparison{
		Current:    toMoney(current),
		Previous:   toMoney(previous),
		ChangeRate: toMoney(changeRate(current, previous)),
	}
}

// changeRate 环比百分比，上期为 0 时返回 0
func changeRate(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
}
