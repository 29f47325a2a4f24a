package admin

import (
	"strconv"
	"strings"

	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ComputeRequest 结算计算请求，对象 ID 为空时计算周期内全部活跃对象
// async 仅对单个对象生效，队列未启用时退化为同步计算
type ComputeRequest struct {
	VendorID   uint   `json:"vendorId"`
	SupplierID uint   `json:"supplierId"`
	Period     string `json:"period" binding:"required"`
	Async      bool   `json:"async"`
}

// ComputeQueuedResponse 异步计算已入队
type ComputeQueuedResponse struct {
	Period string `json:"period"`
	Queued bool   `json:"queued"`
}

// ApproveRequest 审批请求
type ApproveRequest struct {
	Notes string `json:"notes"`
}

// PaymentRequest 付款登记请求
type PaymentRequest struct {
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference"`
	Amount           decimal.Decimal `json:"amount"`
}

// DisputeRequest 争议请求
type DisputeRequest struct {
	Reason string `json:"reason"`
}

// ResolveDisputeRequest 解决争议请求
type ResolveDisputeRequest struct {
	Resolution     string           `json:"resolution"`
	AdjustedAmount *decimal.Decimal `json:"adjustedAmount"`
}

// FailRequest 付款失败请求
type FailRequest struct {
	Reason string `json:"reason"`
}

func bindOptionalJSON(c *gin.Context, target interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(target); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}

func (r PaymentRequest) toInput(operator string) service.PaymentInput {
	return service.PaymentInput{
		Method:    r.PaymentMethod,
		Reference: r.PaymentReference,
		Amount:    r.Amount,
		Operator:  operator,
	}
}

func (r ResolveDisputeRequest) toInput(operator string) service.ResolveDisputeInput {
	return service.ResolveDisputeInput{
		Resolution:     strings.TrimSpace(r.Resolution),
		AdjustedAmount: r.AdjustedAmount,
		Operator:       operator,
	}
}

func parseHistoryLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return limit
}
