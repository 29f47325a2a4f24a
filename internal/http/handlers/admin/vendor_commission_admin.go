package admin

import (
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/repository"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
)

// ComputeVendorCommission 计算商户周期佣金
func (h *Handler) ComputeVendorCommission(c *gin.Context) {
	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.VendorID == 0 {
		result, err := h.CommissionService.ComputeAllVendorCommissions(c.Request.Context(), req.Period)
		if err != nil {
			respondVendorCommissionError(c, err)
			return
		}
		response.Success(c, result)
		return
	}
	if req.Async && h.QueueClient.Enabled() {
		h.enqueueCompute(c, req.Period, respondVendorCommissionError, func(period service.SettlementPeriod) error {
			return h.QueueClient.EnqueueVendorCommission(queue.VendorCommissionPayload{VendorID: req.VendorID, Period: period.Key})
		})
		return
	}
	record, err := h.CommissionService.ComputeVendorCommission(c.Request.Context(), req.VendorID, req.Period)
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.Success(c, record)
}

// GetVendorCommissions 获取商户佣金列表
func (h *Handler) GetVendorCommissions(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	vendorID, ok := handlershared.QueryUint(c, "vendor_id")
	if !ok {
		return
	}
	records, total, err := h.CommissionService.List(repository.VendorCommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendorID,
		Status:   c.Query("status"),
		Period:   c.Query("period"),
	})
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.SuccessWithPage(c, records, handlershared.PageOf(page, pageSize, total))
}

// GetPayableVendorCommissions 获取待付款商户佣金
func (h *Handler) GetPayableVendorCommissions(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	records, total, err := h.CommissionService.ListPayable(page, pageSize)
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.SuccessWithPage(c, records, handlershared.PageOf(page, pageSize, total))
}

// GetVendorCommission 获取商户佣金详情
func (h *Handler) GetVendorCommission(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	record, err := h.CommissionService.GetByID(id)
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.Success(c, record)
}

// GetVendorCommissionHistory 获取商户佣金历史
func (h *Handler) GetVendorCommissionHistory(c *gin.Context) {
	vendorID, ok := handlershared.PathUint(c, "vendor_id")
	if !ok {
		return
	}
	records, err := h.CommissionService.History(vendorID, parseHistoryLimit(c))
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.Success(c, records)
}

// SubmitVendorCommission 提交审批
func (h *Handler) SubmitVendorCommission(c *gin.Context) {
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.Submit(id)
	})
}

// ApproveVendorCommission 审批通过
func (h *Handler) ApproveVendorCommission(c *gin.Context) {
	var req ApproveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.Approve(id, service.ApproveInput{Operator: handlershared.Operator(c), Notes: req.Notes})
	})
}

// PayVendorCommission 登记付款
func (h *Handler) PayVendorCommission(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.MarkPaid(id, req.toInput(handlershared.Operator(c)))
	})
}

// DisputeVendorCommission 发起争议
func (h *Handler) DisputeVendorCommission(c *gin.Context) {
	var req DisputeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.RaiseDispute(id, req.Reason)
	})
}

// ResolveVendorCommission 解决争议
func (h *Handler) ResolveVendorCommission(c *gin.Context) {
	var req ResolveDisputeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.ResolveDispute(id, req.toInput(handlershared.Operator(c)))
	})
}

// CancelVendorCommission 取消佣金
func (h *Handler) CancelVendorCommission(c *gin.Context) {
	h.runVendorCommissionAction(c, func(id uint) (*models.VendorCommission, error) {
		return h.CommissionService.Cancel(id)
	})
}

func (h *Handler) runVendorCommissionAction(c *gin.Context, action func(id uint) (*models.VendorCommission, error)) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	record, err := action(id)
	if err != nil {
		respondVendorCommissionError(c, err)
		return
	}
	response.Success(c, record)
}
