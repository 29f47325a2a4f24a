package admin

import (
	"strconv"

	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FeePolicyUpsertRequest 费率策略创建/更新请求
type FeePolicyUpsertRequest struct {
	Name        string                `json:"name" binding:"required"`
	Type        string                `json:"type" binding:"required"`
	BaseRate    decimal.Decimal       `json:"baseRate"`
	MinFee      *decimal.Decimal      `json:"minFee"`
	MaxFee      *decimal.Decimal      `json:"maxFee"`
	IsActive    *bool                 `json:"isActive"`
	Conditions  []models.FeeCondition `json:"conditions"`
	Description string                `json:"description"`
	SortOrder   int                   `json:"sortOrder"`
}

func (r FeePolicyUpsertRequest) toInput() service.FeePolicyInput {
	return service.FeePolicyInput{
		Name:        r.Name,
		Type:        r.Type,
		BaseRate:    r.BaseRate,
		MinFee:      r.MinFee,
		MaxFee:      r.MaxFee,
		IsActive:    r.IsActive,
		Conditions:  r.Conditions,
		Description: r.Description,
		SortOrder:   r.SortOrder,
	}
}

// FeePolicyToggleRequest 启用状态切换请求，为空时取反
type FeePolicyToggleRequest struct {
	IsActive *bool `json:"isActive"`
}

// CalculateFeeRequest 费用试算请求
type CalculateFeeRequest struct {
	OrderAmount   decimal.Decimal `json:"orderAmount"`
	CategoryID    string          `json:"categoryId"`
	VendorTier    string          `json:"vendorTier"`
	PaymentMethod string          `json:"paymentMethod"`
}

// GetFeePolicies 获取费率策略列表
func (h *Handler) GetFeePolicies(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		isActive = &parsed
	}

	policies, total, err := h.FeePolicyService.List(c.Query("type"), c.Query("search"), isActive, page, pageSize)
	if err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.SuccessWithPage(c, policies, handlershared.PageOf(page, pageSize, total))
}

// GetFeePolicy 获取费率策略详情
func (h *Handler) GetFeePolicy(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	policy, err := h.FeePolicyService.GetByID(id)
	if err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.Success(c, policy)
}

// CreateFeePolicy 创建费率策略
func (h *Handler) CreateFeePolicy(c *gin.Context) {
	var req FeePolicyUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policy, err := h.FeePolicyService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.Success(c, policy)
}

// UpdateFeePolicy 更新费率策略
func (h *Handler) UpdateFeePolicy(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	var req FeePolicyUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policy, err := h.FeePolicyService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.Success(c, policy)
}

// DeleteFeePolicy 删除费率策略
func (h *Handler) DeleteFeePolicy(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	if err := h.FeePolicyService.Delete(c.Request.Context(), id); err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// ToggleFeePolicy 切换费率策略启用状态
func (h *Handler) ToggleFeePolicy(c *gin.Context) {
	id, ok := handlershared.PathUint(c, "id")
	if !ok {
		return
	}
	var req FeePolicyToggleRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	policy, err := h.FeePolicyService.Toggle(c.Request.Context(), id, req.IsActive)
	if err != nil {
		respondFeePolicyError(c, err)
		return
	}
	response.Success(c, policy)
}

// CalculateFee 按启用策略试算订单费用
func (h *Handler) CalculateFee(c *gin.Context) {
	var req CalculateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.FeePolicyService.CalculateFee(c.Request.Context(), service.CalculateFeeInput{
		OrderAmount: req.OrderAmount,
		Context: service.FeeContext{
			CategoryID:    req.CategoryID,
			VendorTier:    req.VendorTier,
			PaymentMethod: req.PaymentMethod,
		},
	})
	if err != nil {
		respondCalculateFeeError(c, err)
		return
	}
	response.Success(c, result)
}
