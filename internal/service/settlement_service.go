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

const supplierStatementPrefix = "STMT"

// SettlementService 供应商结算服务
type SettlementService struct {
	repo         repository.CommissionSettlementRepository
	partnerRepo  repository.PartnerRepository
	sourceRepo   repository.SettlementSourceRepository
	rates        SupplierRates
	currency     string
	loc          *time.Location
	historyLimit int
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewSettlementService 创建供应商结算服务
func NewSettlementService(
	repo repository.CommissionSettlementRepository,
	partnerRepo repository.PartnerRepository,
	sourceRepo repository.SettlementSourceRepository,
	cfg config.SettlementConfig,
	m *metrics.Metrics,
) *SettlementService {
	return &SettlementService{
		repo:         repo,
		partnerRepo:  partnerRepo,
		sourceRepo:   sourceRepo,
		rates:        NewSupplierRates(cfg),
		currency:     resolveCurrency(cfg.Currency),
		loc:          LoadLocation(cfg.Timezone),
		historyLimit: cfg.HistoryLimit,
		metrics:      m,
		now:          time.Now,
	}
}

// ComputeSupplierSettlement 计算（或重算）供应商指定周期结算单
func (s *SettlementService) ComputeSupplierSettlement(ctx context.Context, supplierID uint, rawPeriod string) (*models.CommissionSettlement, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetBySupplierPeriod(supplierID, period.Key)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultError)
		return nil, err
	}
	if existing != nil && !isRecomputableSettlement(existing.Status) {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultFrozen)
		return existing, nil
	}

	supplier, err := s.partnerRepo.GetSupplier(supplierID)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultError)
		return nil, err
	}
	if supplier == nil {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultRejected)
		return nil, ErrSupplierNotFound
	}

	aggregate, err := s.sourceRepo.AggregateSupplierItems(ctx, supplierID, period.Start, period.End)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultError)
		return nil, err
	}
	previousBalance, err := s.previousBalance(supplierID, period)
	if err != nil {
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultError)
		return nil, err
	}

	rate := s.rates.DefaultPlatformCommissionRate
	if supplier.PlatformCommissionRate != nil {
		rate = supplier.PlatformCommissionRate.Decimal
	}
	figures := ComputeSupplierFigures(SupplierInputs{
		TotalOrders:            aggregate.TotalOrders,
		CompletedOrders:        aggregate.CompletedOrders,
		ReturnedOrders:         aggregate.ReturnedOrders,
		CancelledOrders:        aggregate.CancelledOrders,
		GrossRevenue:           aggregate.GrossRevenue,
		Returns:                aggregate.Returns,
		SupplierCost:           aggregate.SupplierCost,
		PlatformCommissionRate: rate,
		PreviousBalance:        previousBalance,
	}, s.rates)

	record := existing
	if record == nil {
		record = &models.CommissionSettlement{
			SupplierID:  supplierID,
			Period:      period.Key,
			Status:      constants.SettlementStatusDraft,
			Adjustments: models.Adjustments{},
		}
	}
	record.StartDate = period.Start
	record.EndDate = period.End
	record.SettlementDate = period.End
	record.TotalOrders = aggregate.TotalOrders
	record.CompletedOrders = aggregate.CompletedOrders
	record.ReturnedOrders = aggregate.ReturnedOrders
	record.CancelledOrders = aggregate.CancelledOrders
	record.TotalProductsSold = aggregate.TotalProductsSold
	record.UniqueProductsSold = aggregate.UniqueProductsSold
	record.GrossRevenue = toMoney(aggregate.GrossRevenue)
	record.Returns = toMoney(aggregate.Returns)
	record.NetRevenue = toMoney(figures.NetRevenue)
	record.SupplierCost = toMoney(aggregate.SupplierCost)
	record.GrossMargin = toMoney(figures.GrossMargin)
	record.MarginRate = toMoney(figures.MarginRate)
	record.PlatformCommissionRate = models.NewRateFromDecimal(rate)
	record.PlatformCommission = toMoney(figures.PlatformCommission)
	record.TransactionFees = toMoney(figures.TransactionFees)
	record.ProcessingFees = toMoney(figures.ProcessingFees)
	record.ShippingCosts = toMoney(figures.ShippingCosts)
	record.TotalFees = toMoney(figures.TotalFees)
	record.SupplierEarnings = toMoney(figures.SupplierEarnings)
	record.PreviousBalance = toMoney(figures.PreviousBalance)
	record.TotalPayable = toMoney(figures.TotalPayable)
	record.AverageOrderValue = toMoney(figures.AverageOrderValue)
	record.ReturnRate = toMoney(figures.ReturnRate)
	record.CancellationRate = toMoney(figures.CancellationRate)
	record.FulfillmentRate = toMoney(figures.FulfillmentRate)
	record.StatementNumber = documentNumber(supplierStatementPrefix, supplierID, period.Key)
	record.Currency = s.currency

	if record.ID == 0 {
		err = s.repo.Create(record)
	} else {
		err = s.repo.Update(record)
	}
	if err != nil {
		if repository.IsUniqueViolation(err) {
			s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultRejected)
			return nil, ErrDuplicateRecord
		}
		s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultError)
		return nil, err
	}
	s.metrics.RecordComputation(metrics.KindSupplierSettlement, metrics.ResultSuccess)
	logger.Infow("supplier_settlement_computed",
		"supplier_id", supplierID,
		"period", period.Key,
		"status", record.Status,
		"total_payable", record.TotalPayable.StringFixed(2),
	)
	return record, nil
}

// ComputeAllSupplierSettlements 计算全部启用供应商的周期结算
func (s *SettlementService) ComputeAllSupplierSettlements(ctx context.Context, rawPeriod string) (*BulkComputeResult, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	ids, err := s.partnerRepo.ListActiveSupplierIDs()
	if err != nil {
		return nil, err
	}
	result := &BulkComputeResult{Period: period.Key, Total: len(ids), FailedIDs: []uint{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.ComputeSupplierSettlement(ctx, id, period.Key); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			logger.Warnw("settlement_compute_failed", "supplier_id", id, "period", period.Key, "error", err)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// List 结算单列表
func (s *SettlementService) List(filter repository.SettlementListFilter) ([]models.CommissionSettlement, int64, error) {
	if strings.TrimSpace(filter.Period) != "" {
		if _, err := ParsePeriod(filter.Period, s.loc); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(filter)
}

// ListPayable 待付款结算单（已审批且无争议）
func (s *SettlementService) ListPayable(page, pageSize int) ([]models.CommissionSettlement, int64, error) {
	return s.repo.ListPayable(page, pageSize)
}

// History 供应商最近 N 期结算单
func (s *SettlementService) History(supplierID uint, limit int) ([]models.CommissionSettlement, error) {
	return s.repo.ListHistory(supplierID, normalizeHistoryLimit(limit, s.historyLimit))
}

// GetByID 获取结算单
func (s *SettlementService) GetByID(id uint) (*models.CommissionSettlement, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSettlementNotFound
	}
	return record, nil
}

// Submit 提交审核
func (s *SettlementService) Submit(id uint) (*models.CommissionSettlement, error) {
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusDraft); err != nil {
			return err
		}
		record.Status = constants.SettlementStatusPending
		return nil
	})
}

// Approve 审批通过
func (s *SettlementService) Approve(id uint, input ApproveInput) (*models.CommissionSettlement, error) {
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusDraft, constants.SettlementStatusPending); err != nil {
			return err
		}
		now := s.now()
		record.Status = constants.SettlementStatusApproved
		record.ApprovedBy = strings.TrimSpace(input.Operator)
		record.ApprovedAt = &now
		record.ApprovalNotes = strings.TrimSpace(input.Notes)
		return nil
	})
}

// StartProcessing 开始付款处理
func (s *SettlementService) StartProcessing(id uint) (*models.CommissionSettlement, error) {
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusApproved); err != nil {
			return err
		}
		if record.HasDispute {
			return ErrInvalidStatusTransition
		}
		record.Status = constants.SettlementStatusProcessing
		return nil
	})
}

// MarkPaid 标记已付款
func (s *SettlementService) MarkPaid(id uint, input PaymentInput) (*models.CommissionSettlement, error) {
	payment, err := validatePayment(input)
	if err != nil {
		return nil, err
	}
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusProcessing); err != nil {
			return err
		}
		now := s.now()
		record.Status = constants.SettlementStatusPaid
		record.PaymentMethod = payment.Method
		record.PaymentReference = payment.Reference
		record.PaidAmount = models.NewMoneyPtr(payment.Amount)
		record.PaidAt = &now
		record.FailureReason = ""
		return nil
	})
}

// MarkFailed 标记付款失败
func (s *SettlementService) MarkFailed(id uint, reason string) (*models.CommissionSettlement, error) {
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusProcessing); err != nil {
			return err
		}
		record.Status = constants.SettlementStatusFailed
		record.FailureReason = strings.TrimSpace(reason)
		return nil
	})
}

// Retry 失败后重新进入处理
func (s *SettlementService) Retry(id uint) (*models.CommissionSettlement, error) {
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusFailed); err != nil {
			return err
		}
		record.Status = constants.SettlementStatusProcessing
		return nil
	})
}

// RaiseDispute 发起争议
func (s *SettlementService) RaiseDispute(id uint, reason string) (*models.CommissionSettlement, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrDisputeReasonRequired
	}
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusPending, constants.SettlementStatusApproved); err != nil {
			return err
		}
		now := s.now()
		record.Status = constants.SettlementStatusDisputed
		record.HasDispute = true
		record.DisputeReason = reason
		record.DisputedAt = &now
		return nil
	})
}

// ResolveDispute 解决争议并回到已审批
func (s *SettlementService) ResolveDispute(id uint, input ResolveDisputeInput) (*models.CommissionSettlement, error) {
	if input.AdjustedAmount != nil && input.AdjustedAmount.IsNegative() {
		return nil, ErrInvalidPaymentDetails
	}
	return s.transition(id, func(record *models.CommissionSettlement) error {
		if err := checkTransition(record.Status, constants.SettlementStatusDisputed); err != nil {
			return err
		}
		now := s.now()
		record.Adjustments, record.TotalPayable, record.TotalAdjustments = applyDisputeAdjustment(
			record.Adjustments, record.TotalPayable, record.TotalAdjustments, input, now,
		)
		record.Status = constants.SettlementStatusApproved
		record.HasDispute = false
		record.DisputeResolvedAt = &now
		record.DisputeResolution = strings.TrimSpace(input.Resolution)
		return nil
	})
}

func (s *SettlementService) transition(id uint, apply func(record *models.CommissionSettlement) error) (*models.CommissionSettlement, error) {
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
	logger.Infow("supplier_settlement_status_changed", "settlement_id", record.ID, "from", from, "to", record.Status)
	return record, nil
}

func (s *SettlementService) previousBalance(supplierID uint, period SettlementPeriod) (decimal.Decimal, error) {
	previous, err := s.repo.GetBySupplierPeriod(supplierID, period.Previous().Key)
	if err != nil {
		return decimal.Zero, err
	}
	if previous == nil {
		return decimal.Zero, nil
	}
	// 供应商结算没有取消状态
	return carryForwardBalance(previous.Status, constants.SettlementStatusPaid, "", previous.TotalPayable, previous.PaidAmount), nil
}

func isRecomputableSettlement(status string) bool {
	return status == constants.SettlementStatusDraft || status == constants.SettlementStatusPending
}
