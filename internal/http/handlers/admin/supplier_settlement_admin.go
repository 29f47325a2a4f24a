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

// ComputeSupplierSettlement 计算供应商周期结算
func (h *Handler) ComputeSupplierSettlement(c *gin.Context) {
	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.SupplierID == 0 {
		result, err := h.SettlementService.ComputeAllSupplierSettlements(c.Request.Context(), req.Period)
		if err != nil {
			respondSupplierSettlementError(c, err)
			return
		}
		response.Success(c, result)
		return
	}
	if req.Async && h.QueueClient.Enabled() {
		h.enqueueCompute(c, req.Period, respondSupplierSettlementError, func(period service.SettlementPeriod) error {
			return h.QueueClient.EnqueueSupplierSettlement(queue.SupplierSettlementPayload{SupplierID: req.SupplierID, Period: period.Key})
		})
		return
	}
	record, err := h.SettlementService.ComputeSupplierSettlement(c.Request.Context(), req.SupplierID, req.Period)
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.Success(c, record)
}

// GetSupplierSettlements 获取供应商结算列表
func (h *Handler) GetSupplierSettlements(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	supplierID, ok := handlershared.QueryUint(c, "supplier_id")
	if !ok {
		return
	}
	records, total, err := h.SettlementService.List(repository.SettlementListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: supplierID,
		Status:     c.Query("status"),
		Period:     c.Query("period"),
	})
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.SuccessWithPage(c, records, handlershared.PageOf(page, pageSize, total))
}

// GetPayableSupplierSettlements 获取待付款供应商结算
func (h *Handler) GetPayableSupplierSettlements(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	records, total, err := h.SettlementService.ListPayable(page, pageSize)
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.SuccessWithPage(c, records, handlershared.PageOf(page, pageSize, total))
}

// GetSupplierSettlement 获取供应商结算详情
func (h *Handler) GetSupplierSettlement(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	record, err := h.SettlementService.GetByID(id)
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.Success(c, record)
}

// GetSupplierSettlementHistory 获取供应商结算历史
func (h *Handler) GetSupplierSettlementHistory(c *gin.Context) {
	supplierID, ok := handlershared.PathUint(c, "supplier_id")
	if !ok {
		return
	}
	records, err := h.SettlementService.History(supplierID, parseHistoryLimit(c))
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.Success(c, records)
}

// SubmitSupplierSettlement 提交审批
func (h *Handler) SubmitSupplierSettlement(c *gin.Context) {
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.Submit(id)
	})
}

// ApproveSupplierSettlement 审批通过
func (h *Handler) ApproveSupplierSettlement(c *gin.Context) {
	var req ApproveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.Approve(id, service.ApproveInput{Operator: handlershared.Operator(c), Notes: req.Notes})
	})
}

// ProcessSupplierSettlement 开始付款处理
func (h *Handler) ProcessSupplierSettlement(c *gin.Context) {
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.StartProcessing(id)
	})
}

// PaySupplierSettlement 登记付款
func (h *Handler) PaySupplierSettlement(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.MarkPaid(id, req.toInput(handlershared.Operator(c)))
	})
}

// FailSupplierSettlement 标记付款失败
func (h *Handler) FailSupplierSettlement(c *gin.Context) {
	var req FailRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.MarkFailed(id, req.Reason)
	})
}

// RetrySupplierSettlement 重新进入付款处理
func (h *Handler) RetrySupplierSettlement(c *gin.Context) {
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.Retry(id)
	})
}

// DisputeSupplierSettlement 发起争议
func (h *Handler) DisputeSupplierSettlement(c *gin.Context) {
	var req DisputeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.RaiseDispute(id, req.Reason)
	})
}

// ResolveSupplierSettlement 解决争议
func (h *Handler) ResolveSupplierSettlement(c *gin.Context) {
	var req ResolveDisputeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.runSupplierSettlementAction(c, func(id uint) (*models.CommissionSettlement, error) {
		return h.SettlementService.ResolveDispute(id, req.toInput(handlershared.Operator(c)))
	})
}

func (h *Handler) runSupplierSettlementAction(c *gin.Context, action func(id uint) (*models.CommissionSettlement, error)) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	record, err := action(id)
	if err != nil {
		respondSupplierSettlementError(c, err)
		return
	}
	response.Success(c, record)
}

