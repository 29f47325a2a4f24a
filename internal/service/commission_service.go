package service

import (
	"context"
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/metrics"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"

	"github.com/shopspring/decimal"
)

const vendorInvoicePrefix = "INV"

// CommissionService 商户佣金结算服务
type CommissionService struct {
	repo         repository.VendorCommissionRepository
	partnerRepo  repository.PartnerRepository
	sourceRepo   repository.SettlementSourceRepository
	rates        CommissionRates
	currency     string
	loc          *time.Location
	historyLimit int
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewCommissionService 创建商户佣金服务
func NewCommissionService(
	repo repository.VendorCommissionRepository,
	partnerRepo repository.PartnerRepository,
	sourceRepo repository.SettlementSourceRepository,
	cfg config.SettlementConfig,
	m *metrics.Metrics,
) *CommissionService {
	return &CommissionService{
		repo:         repo,
		partnerRepo:  partnerRepo,
		sourceRepo:   sourceRepo,
		rates:        NewCommissionRates(cfg),
		currency:     resolveCurrency(cfg.Currency),
		loc:          LoadLocation(cfg.Timezone),
		historyLimit: cfg.HistoryLimit,
		metrics:      m,
		now:          time.Now,
	}
}

// Location 返回结算时区
func (s *CommissionService) Location() *time.Location {
	return s.loc
}

// ComputeVendorCommission 计算（或重算）商户指定周期佣金
// 记录已离开 draft / pending 时直接返回原记录。
func (s *CommissionService) ComputeVendorCommission(ctx context.Context, vendorID uint, rawPeriod string) (*models.VendorCommission, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByVendorPeriod(vendorID, period.Key)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultError)
		return nil, err
	}
	if existing != nil && !isRecomputableCommission(existing.Status) {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultFrozen)
		return existing, nil
	}

	vendor, err := s.partnerRepo.GetVendor(vendorID)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultError)
		return nil, err
	}
	if vendor == nil {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultRejected)
		return nil, ErrVendorNotFound
	}

	aggregate, err := s.sourceRepo.AggregateVendorOrders(ctx, vendorID, period.Start, period.End)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultError)
		return nil, err
	}
	previousBalance, err := s.previousBalance(vendorID, period)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultError)
		return nil, err
	}

	rate := s.rates.DefaultCommissionRate
	if vendor.CommissionRate != nil {
		rate = vendor.CommissionRate.Decimal
	}
	otherDeductions := decimal.Zero
	if existing != nil {
		otherDeductions = existing.OtherDeductions.Decimal
	}
	netSales := aggregate.GrossSales.Sub(aggregate.RefundAmount).Round(2)
	figures := ComputeCommissionFigures(CommissionInputs{
		NetSales:        netSales,
		RefundAmount:    aggregate.RefundAmount,
		CompletedOrders: aggregate.CompletedOrders,
		CommissionRate:  rate,
		OtherDeductions: otherDeductions,
		PreviousBalance: previousBalance,
	}, s.rates)

	record := existing
	if record == nil {
		record = &models.VendorCommission{
			VendorID:    vendorID,
			Period:      period.Key,
			Status:      constants.CommissionStatusDraft,
			Adjustments: models.Adjustments{},
		}
	}
	record.StartDate = period.Start
	record.EndDate = period.End
	record.TotalOrders = aggregate.TotalOrders
	record.CompletedOrders = aggregate.CompletedOrders
	record.CancelledOrders = aggregate.CancelledOrders
	record.RefundedOrders = aggregate.RefundedOrders
	record.GrossSales = toMoney(aggregate.GrossSales)
	record.NetSales = toMoney(netSales)
	record.RefundAmount = toMoney(aggregate.RefundAmount)
	record.CommissionRate = models.NewRateFromDecimal(rate)
	record.BaseCommission = toMoney(figures.BaseCommission)
	record.BonusCommission = toMoney(figures.BonusCommission)
	record.TotalCommission = toMoney(figures.TotalCommission)
	record.PlatformFee = toMoney(figures.PlatformFee)
	record.TransactionFee = toMoney(figures.TransactionFee)
	record.RefundDeduction = toMoney(figures.RefundDeduction)
	record.OtherDeductions = toMoney(figures.OtherDeductions)
	record.TotalDeductions = toMoney(figures.TotalDeductions)
	record.NetCommission = toMoney(figures.NetCommission)
	record.PreviousBalance = toMoney(figures.PreviousBalance)
	record.TotalPayable = toMoney(figures.TotalPayable)
	record.InvoiceNumber = documentNumber(vendorInvoicePrefix, vendorID, period.Key)
	record.Currency = s.currency
	record.CalculationDetails = models.JSON{
		"commissionRate":         rate.StringFixed(2),
		"bonusThreshold":         s.rates.BonusThreshold.StringFixed(2),
		"bonusRate":              s.rates.BonusRate.StringFixed(2),
		"platformFeeRate":        s.rates.PlatformFeeRate.StringFixed(2),
		"transactionFeePerOrder": s.rates.TransactionFeePerOrder.StringFixed(2),
		"timezone":               s.loc.String(),
	}

	if record.ID == 0 {
		err = s.repo.Create(record)
	} else {
		err = s.repo.Update(record)
	}
	if err != nil {
		if repository.IsUniqueViolation(err) {
			s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultRejected)
			return nil, ErrDuplicateRecord
		}
		s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultError)
		return nil, err
	}
	s.metrics.RecordComputation(metrics.KindVendorCommission, metrics.ResultSuccess)
	logger.Infow("vendor_commission_computed",
		"vendor_id", vendorID,
		"period", period.Key,
		"status", record.Status,
		"total_payable", record.TotalPayable.StringFixed(2),
	)
	return record, nil
}

// ComputeAllVendorCommissions 计算全部启用商户的周期佣金，单个失败不影响其他商户
func (s *CommissionService) ComputeAllVendorCommissions(ctx context.Context, rawPeriod string) (*BulkComputeResult, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	ids, err := s.partnerRepo.ListActiveVendorIDs()
	if err != nil {
		return nil, err
	}
	result := &BulkComputeResult{Period: period.Key, Total: len(ids), FailedIDs: []uint{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.ComputeVendorCommission(ctx, id, period.Key); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			logger.Warnw("commission_compute_failed", "vendor_id", id, "period", period.Key, "error", err)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// List 佣金列表
func (s *CommissionService) List(filter repository.VendorCommissionListFilter) ([]models.VendorCommission, int64, error) {
	if strings.TrimSpace(filter.Period) != "" {
		if _, err := ParsePeriod(filter.Period, s.loc); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(filter)
}

// ListPayable 待付款佣金
func (s *CommissionService) ListPayable(page, pageSize int) ([]models.VendorCommission, int64, error) {
	return s.repo.ListPayable(page, pageSize)
}

// History 商户最近 N 期佣金
func (s *CommissionService) History(vendorID uint, limit int) ([]models.VendorCommission, error) {
	return s.repo.ListHistory(vendorID, normalizeHistoryLimit(limit, s.historyLimit))
}

// GetByID 获取佣金记录
func (s *CommissionService) GetByID(id uint) (*models.VendorCommission, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrCommissionNotFound
	}
	return record, nil
}

// Submit 提交审核
func (s *CommissionService) Submit(id uint) (*models.VendorCommission, error) {
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusDraft); err != nil {
			return err
		}
		record.Status = constants.CommissionStatusPending
		return nil
	})
}

// Approve 审批通过
func (s *CommissionService) Approve(id uint, input ApproveInput) (*models.VendorCommission, error) {
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusDraft, constants.CommissionStatusPending); err != nil {
			return err
		}
		now := s.now()
		record.Status = constants.CommissionStatusApproved
		record.ApprovedBy = strings.TrimSpace(input.Operator)
		record.ApprovedAt = &now
		record.ApprovalNotes = strings.TrimSpace(input.Notes)
		return nil
	})
}

// MarkPaid 标记已付款
func (s *CommissionService) MarkPaid(id uint, input PaymentInput) (*models.VendorCommission, error) {
	payment, err := validatePayment(input)
	if err != nil {
		return nil, err
	}
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusApproved); err != nil {
			return err
		}
		if record.IsDisputed {
			return ErrInvalidStatusTransition
		}
		now := s.now()
		record.Status = constants.CommissionStatusPaid
		record.PaymentMethod = payment.Method
		record.PaymentReference = payment.Reference
		record.PaidAmount = models.NewMoneyPtr(payment.Amount)
		record.PaidAt = &now
		return nil
	})
}

// RaiseDispute 发起争议
func (s *CommissionService) RaiseDispute(id uint, reason string) (*models.VendorCommission, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrDisputeReasonRequired
	}
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusPending, constants.CommissionStatusApproved); err != nil {
			return err
		}
		now := s.now()
		record.Status = constants.CommissionStatusDisputed
		record.IsDisputed = true
		record.DisputeReason = reason
		record.DisputedAt = &now
		return nil
	})
}

// ResolveDispute 解决争议并回到已审批
func (s *CommissionService) ResolveDispute(id uint, input ResolveDisputeInput) (*models.VendorCommission, error) {
	if input.AdjustedAmount != nil && input.AdjustedAmount.IsNegative() {
		return nil, ErrInvalidPaymentDetails
	}
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusDisputed); err != nil {
			return err
		}
		now := s.now()
		record.Adjustments, record.TotalPayable, record.TotalAdjustments = applyDisputeAdjustment(
			record.Adjustments, record.TotalPayable, record.TotalAdjustments, input, now,
		)
		record.Status = constants.CommissionStatusApproved
		record.IsDisputed = false
		record.DisputeResolvedAt = &now
		record.DisputeResolution = strings.TrimSpace(input.Resolution)
		return nil
	})
}

// Cancel 取消
func (s *CommissionService) Cancel(id uint) (*models.VendorCommission, error) {
	return s.transition(id, func(record *models.VendorCommission) error {
		if err := checkTransition(record.Status, constants.CommissionStatusDraft, constants.CommissionStatusPending); err != nil {
			return err
		}
		record.Status = constants.CommissionStatusCancelled
		return nil
	})
}

func (s *CommissionService) transition(id uint, apply func(record *models.VendorCommission) error) (*models.VendorCommission, error) {
	record, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	from := record.Status
	if err := apply(record); err != nil {
		return nil, err
	}
	if err := s.repo.Update(record); err != nil {
		return nil, err
	}
	logger.Infow("vendor_commission_status_changed", "commission_id", record.ID, "from", from, "to", record.Status)
	return record, nil
}

func (s *CommissionService) previousBalance(vendorID uint, period SettlementPeriod) (decimal.Decimal, error) {
	previous, err := s.repo.GetByVendorPeriod(vendorID, period.Previous().Key)
	if err != nil {
		return decimal.Zero, err
	}
	if previous == nil {
		return decimal.Zero, nil
	}
	return carryForwardBalance(previous.Status, constants.CommissionStatusPaid, constants.CommissionStatusCancelled, previous.TotalPayable, previous.PaidAmount), nil
}

func isRecomputableCommission(status string) bool {
	return status == constants.CommissionStatusDraft || status == constants.CommissionStatusPending
}

func resolveCurrency(raw string) string {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if currency == "" {
		return "KRW"
	}
	return currency
}
