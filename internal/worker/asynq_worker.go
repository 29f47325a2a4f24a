package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/provider"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 结算任务消费者，共享 API 侧的服务容器
type Consumer struct {
	*provider.Container
}

func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册关账与单对象计算任务
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	mux.HandleFunc(queue.TaskPeriodClose, c.handlePeriodClose)
	mux.HandleFunc(queue.TaskVendorCommission, c.handleVendorCommission)
	mux.HandleFunc(queue.TaskSupplierSettlement, c.handleSupplierSettlement)
}

func (c *Consumer) handlePeriodClose(ctx context.Context, task *asynq.Task) error {
	var payload queue.PeriodClosePayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Period) == "" || c.PeriodCloseService == nil {
		logger.Warnw("worker_period_close_skipped", "period", payload.Period, "service_ready", c.PeriodCloseService != nil)
		return nil
	}
	result, err := c.PeriodCloseService.ClosePeriod(ctx, payload.Period)
	if err != nil {
		return settle(err, "worker_period_close_failed", "period", payload.Period, "source", payload.Source)
	}
	logger.Infow("worker_period_close_done",
		"period", result.Period,
		"source", payload.Source,
		"vendor_failed", result.Vendors.Failed,
		"supplier_failed", result.Suppliers.Failed,
	)
	return nil
}

func (c *Consumer) handleVendorCommission(ctx context.Context, task *asynq.Task) error {
	var payload queue.VendorCommissionPayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}
	if payload.VendorID == 0 || c.CommissionService == nil {
		logger.Warnw("worker_vendor_commission_skipped", "vendor_id", payload.VendorID, "service_ready", c.CommissionService != nil)
		return nil
	}
	if _, err := c.CommissionService.ComputeVendorCommission(ctx, payload.VendorID, payload.Period); err != nil {
		return settle(err, "worker_vendor_commission_failed", "vendor_id", payload.VendorID, "period", payload.Period)
	}
	return nil
}

func (c *Consumer) handleSupplierSettlement(ctx context.Context, task *asynq.Task) error {
	var payload queue.SupplierSettlementPayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}
	if payload.SupplierID == 0 || c.SettlementService == nil {
		logger.Warnw("worker_supplier_settlement_skipped", "supplier_id", payload.SupplierID, "service_ready", c.SettlementService != nil)
		return nil
	}
	if _, err := c.SettlementService.ComputeSupplierSettlement(ctx, payload.SupplierID, payload.Period); err != nil {
		return settle(err, "worker_supplier_settlement_failed", "supplier_id", payload.SupplierID, "period", payload.Period)
	}
	return nil
}

// decodePayload 载荷损坏时重试也无法恢复，直接跳过重试
func decodePayload(task *asynq.Task, dest interface{}) error {
	if task == nil {
		return fmt.Errorf("nil task: %w", asynq.SkipRetry)
	}
	if err := json.Unmarshal(task.Payload(), dest); err != nil {
		logger.Warnw("worker_payload_invalid", "type", task.Type(), "error", err)
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// settle 周期非法或对象不存在时丢弃任务，其余错误交给 asynq 重试
func settle(err error, event string, kv ...interface{}) error {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrVendorNotFound),
		errors.Is(err, service.ErrSupplierNotFound):
		logger.Infow(event, append(kv, "error", err, "dropped", true)...)
		return nil
	default:
		logger.Warnw(event, append(kv, "error", err)...)
		return err
	}
}
