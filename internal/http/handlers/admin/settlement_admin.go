package admin

import (
	"errors"
	"time"

	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/i18n"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
)

// ClosePeriodRequest 周期关账请求
type ClosePeriodRequest struct {
	Period string `json:"period" binding:"required"`
}

// GetSettlementStatistics 获取结算统计
func (h *Handler) GetSettlementStatistics(c *gin.Context) {
	stats, err := h.SettlementStatisticsService.GetStatistics(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, stats)
}

// ClosePeriod 关账：计算周期内全部商户佣金与供应商结算
func (h *Handler) ClosePeriod(c *gin.Context) {
	var req ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.PeriodCloseService.RequestClose(c.Request.Context(), req.Period)
	if err != nil {
		respondPeriodCloseError(c, err)
		return
	}
	locale := i18n.ResolveLocale(c)
	if result.Queued {
		requestLog(c).Infow("admin_period_close_requested", "period", result.Period, "operator", handlershared.Operator(c))
		response.SuccessWithMsg(c, i18n.T(locale, "message.period_close_enqueued"), result)
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, "message.period_close_completed"), result)
}

// enqueueCompute 单个对象的异步计算，同一对象同一周期重复提交返回 409
func (h *Handler) enqueueCompute(c *gin.Context, rawPeriod string, respond func(*gin.Context, error), submit func(service.SettlementPeriod) error) {
	period, err := service.ParsePeriod(rawPeriod, h.CommissionService.Location())
	if err != nil {
		respond(c, err)
		return
	}
	if err := submit(period); err != nil {
		if errors.Is(err, queue.ErrTaskAlreadyQueued) {
			err = service.ErrDuplicateRecord
		}
		respond(c, err)
		return
	}
	requestLog(c).Infow("admin_compute_enqueued", "period", period.Key, "path", c.FullPath(), "operator", handlershared.Operator(c))
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.compute_enqueued"), ComputeQueuedResponse{Period: period.Key, Queued: true})
}
