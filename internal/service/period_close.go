package service

import (
	"context"
	"errors"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/queue"
)

// 关账触发来源
const (
	PeriodCloseSourceManual    = "manual"
	PeriodCloseSourceScheduler = "scheduler"
)

// PeriodCloseResult 月度关账执行结果
type PeriodCloseResult struct {
	Period    string             `json:"period"`
	Vendors   *BulkComputeResult `json:"vendors"`
	Suppliers *BulkComputeResult `json:"suppliers"`
}

// PeriodCloseRequest 关账请求受理结果
type PeriodCloseRequest struct {
	Period string             `json:"period"`
	Queued bool               `json:"queued"`
	Result *PeriodCloseResult `json:"result,omitempty"`
}

// PeriodCloseService 月度关账服务
type PeriodCloseService struct {
	commissionService *CommissionService
	settlementService *SettlementService
	queueClient       *queue.Client
	autoClose         config.AutoCloseConfig
	loc               *time.Location
}

// NewPeriodCloseService 创建月度关账服务
func NewPeriodCloseService(commissionService *CommissionService, settlementService *SettlementService, queueClient *queue.Client, cfg config.SettlementConfig) *PeriodCloseService {
	return &PeriodCloseService{
		commissionService: commissionService,
		settlementService: settlementService,
		queueClient:       queueClient,
		autoClose:         cfg.AutoClose,
		loc:               LoadLocation(cfg.Timezone),
	}
}

// ClosePeriod 依次计算全部商户佣金与供应商结算
func (s *PeriodCloseService) ClosePeriod(ctx context.Context, rawPeriod string) (*PeriodCloseResult, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	vendors, err := s.commissionService.ComputeAllVendorCommissions(ctx, period.Key)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.settlementService.ComputeAllSupplierSettlements(ctx, period.Key)
	if err != nil {
		return nil, err
	}
	logger.Infow("settlement_period_closed",
		"period", period.Key,
		"vendor_total", vendors.Total,
		"vendor_failed", vendors.Failed,
		"supplier_total", suppliers.Total,
		"supplier_failed", suppliers.Failed,
	)
	return &PeriodCloseResult{Period: period.Key, Vendors: vendors, Suppliers: suppliers}, nil
}

// RequestClose 队列可用时异步关账，否则同步执行
func (s *PeriodCloseService) RequestClose(ctx context.Context, rawPeriod string) (*PeriodCloseRequest, error) {
	period, err := ParsePeriod(rawPeriod, s.loc)
	if err != nil {
		return nil, err
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueuePeriodClose(queue.PeriodClosePayload{
			Period: period.Key,
			Source: PeriodCloseSourceManual,
		})
		if errors.Is(err, queue.ErrTaskAlreadyQueued) {
			return nil, ErrDuplicateRecord
		}
		if err != nil {
			return nil, err
		}
		logger.Infow("settlement_period_close_enqueued", "period", period.Key)
		return &PeriodCloseRequest{Period: period.Key, Queued: true}, nil
	}
	result, err := s.ClosePeriod(ctx, period.Key)
	if err != nil {
		return nil, err
	}
	return &PeriodCloseRequest{Period: period.Key, Result: result}, nil
}

// DueAutoClosePeriod 自动关账开启且当月已到关账日时返回上月周期
func (s *PeriodCloseService) DueAutoClosePeriod(now time.Time) (string, bool) {
	if !s.autoClose.Enabled {
		return "", false
	}
	day := s.autoClose.Day
	if day <= 0 {
		day = 1
	}
	current := PeriodOf(now, s.loc)
	if now.In(s.loc).Day() < day {
		return "", false
	}
	return current.Previous().Key, true
}
