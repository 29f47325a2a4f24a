package storehub

import (
	"strconv"
	"time"

	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateChannelRequest 渠道开通申请
type CreateChannelRequest struct {
	ChannelType string `json:"channelType" binding:"required"`
	Name        string `json:"name"`
}

func forceRefresh(c *gin.Context) bool {
	refresh, _ := strconv.ParseBool(c.DefaultQuery("force_refresh", "false"))
	return refresh
}

// GetOverview 门店概览
func (h *Handler) GetOverview(c *gin.Context) {
	orgID, ok := handlershared.RequireOrganizationID(c)
	if !ok {
		return
	}
	overview, err := h.StoreHubService.GetOverview(c.Request.Context(), orgID, forceRefresh(c))
	if err != nil {
		respondStoreHubError(c, err)
		return
	}
	response.Success(c, overview)
}

// GetKpiSummary 门店 KPI 汇总
func (h *Handler) GetKpiSummary(c *gin.Context) {
	orgID, ok := handlershared.RequireOrganizationID(c)
	if !ok {
		return
	}
	summary, err := h.StoreHubService.GetKpiSummary(c.Request.Context(), orgID, time.Now(), forceRefresh(c))
	if err != nil {
		respondStoreHubError(c, err)
		return
	}
	response.Success(c, summary)
}

// GetLiveSignals 门店实时信号
func (h *Handler) GetLiveSignals(c *gin.Context) {
	orgID, ok := handlershared.RequireOrganizationID(c)
	if !ok {
		return
	}
	signals, err := h.StoreHubService.GetLiveSignals(c.Request.Context(), orgID, time.Now())
	if err != nil {
		respondStoreHubError(c, err)
		return
	}
	response.Success(c, signals)
}

// GetChannels 门店渠道列表
func (h *Handler) GetChannels(c *gin.Context) {
	orgID, ok := handlershared.RequireOrganizationID(c)
	if !ok {
		return
	}
	channels, err := h.StoreHubService.ListChannels(orgID)
	if err != nil {
		respondStoreHubError(c, err)
		return
	}
	response.Success(c, channels)
}

// CreateChannel 申请开通渠道
func (h *Handler) CreateChannel(c *gin.Context) {
	orgID, ok := handlershared.RequireOrganizationID(c)
	if !ok {
		return
	}
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStoreHubError(c, service.ErrInvalidChannel)
		return
	}
	channel, err := h.StoreHubService.CreateChannel(c.Request.Context(), orgID, service.CreateChannelInput{
		ChannelType: req.ChannelType,
		Name:        req.Name,
	})
	if err != nil {
		respondStoreHubError(c, err)
		return
	}
	response.Success(c, channel)
}
