package queue

import (
	"encoding/json"
	"fmt"

	"github.com/o4o-platform/settlement/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPeriodClose 月度结算关账任务
	TaskPeriodClose = constants.TaskSettlementPeriodClose
	// TaskVendorCommission 单个商户佣金计算任务
	TaskVendorCommission = constants.TaskVendorCommissionCompute
	// TaskSupplierSettlement 单个供应商结算计算任务
	TaskSupplierSettlement = constants.TaskSupplierSettlementCompute
)

// PeriodClosePayload 月度关账任务载荷
type PeriodClosePayload struct {
	Period string `json:"period"`
	Source string `json:"source"` // manual / scheduler
}

// VendorCommissionPayload 商户佣金计算任务载荷
type VendorCommissionPayload struct {
	VendorID uint   `json:"vendor_id"`
	Period   string `json:"period"`
}

// SupplierSettlementPayload 供应商结算计算任务载荷
type SupplierSettlementPayload struct {
	SupplierID uint   `json:"supplier_id"`
	Period     string `json:"period"`
}

// PeriodCloseTaskID 同一周期只允许一个排队中的关账任务
func PeriodCloseTaskID(period string) string {
	return "period_close:" + period
}

// ComputeTaskID 同一对象同一周期只允许一个排队中的计算任务
func ComputeTaskID(kind string, id uint, period string) string {
	return fmt.Sprintf("compute:%s:%d:%s", kind, id, period)
}

func NewPeriodCloseTask(payload PeriodClosePayload) (*asynq.Task, error) {
	return newTask(TaskPeriodClose, payload)
}

func NewVendorCommissionTask(payload VendorCommissionPayload) (*asynq.Task, error) {
	return newTask(TaskVendorCommission, payload)
}

func NewSupplierSettlementTask(payload SupplierSettlementPayload) (*asynq.Task, error) {
	return newTask(TaskSupplierSettlement, payload)
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body), nil
}
