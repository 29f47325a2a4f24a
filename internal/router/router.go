package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/o4o-platform/settlement/internal/cache"
	"github.com/o4o-platform/settlement/internal/config"
	adminhandlers "github.com/o4o-platform/settlement/internal/http/handlers/admin"
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	storehubhandlers "github.com/o4o-platform/settlement/internal/http/handlers/storehub"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按结算后台/门店中心分组）
	adminHandler := adminhandlers.New(c)
	storeHubHandler := storehubhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "settlement"
	}
	feeCalcRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:calculate_fee", redisPrefix),
		WindowSeconds: cfg.Security.FeeCalcRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.FeeCalcRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))
	r.NoRoute(func(ctx *gin.Context) {
		handlershared.RespondError(ctx, response.CodeNotFound, "error.not_found", nil)
	})

	// API 路由组，全部需要令牌与角色授权
	apiV1 := r.Group("/api/v1")
	apiV1.Use(JWTAuthMiddleware(cfg.JWT), RBACMiddleware(c.AuthzService))
	{
		settlements := apiV1.Group("/settlements")
		{
			// 费用试算
			settlements.POST("/calculate-fee", RateLimitMiddleware(cache.Client(), feeCalcRule, KeyBySubject), adminHandler.CalculateFee)

			// 费率策略
			settlements.GET("/fee-policies", adminHandler.GetFeePolicies)
			settlements.POST("/fee-policies", adminHandler.CreateFeePolicy)
			settlements.GET("/fee-policies/:id", adminHandler.GetFeePolicy)
			settlements.PUT("/fee-policies/:id", adminHandler.UpdateFeePolicy)
			settlements.DELETE("/fee-policies/:id", adminHandler.DeleteFeePolicy)
			settlements.PATCH("/fee-policies/:id/toggle", adminHandler.ToggleFeePolicy)

			// 商户佣金
			settlements.POST("/vendor-commissions/compute", adminHandler.ComputeVendorCommission)
			settlements.GET("/vendor-commissions", adminHandler.GetVendorCommissions)
			settlements.GET("/vendor-commissions/payable", adminHandler.GetPayableVendorCommissions)
			settlements.GET("/vendor-commissions/history/:vendor_id", adminHandler.GetVendorCommissionHistory)
			settlements.GET("/vendor-commissions/:id", adminHandler.GetVendorCommission)
			settlements.POST("/vendor-commissions/:id/submit", adminHandler.SubmitVendorCommission)
			settlements.POST("/vendor-commissions/:id/approve", adminHandler.ApproveVendorCommission)
			settlements.POST("/vendor-commissions/:id/pay", adminHandler.PayVendorCommission)
			settlements.POST("/vendor-commissions/:id/dispute", adminHandler.DisputeVendorCommission)
			settlements.POST("/vendor-commissions/:id/resolve", adminHandler.ResolveVendorCommission)
			settlements.POST("/vendor-commissions/:id/cancel", adminHandler.CancelVendorCommission)

			// 供应商结算
			settlements.POST("/supplier-settlements/compute", adminHandler.ComputeSupplierSettlement)
			settlements.GET("/supplier-settlements", adminHandler.GetSupplierSettlements)
			settlements.GET("/supplier-settlements/payable", adminHandler.GetPayableSupplierSettlements)
			settlements.GET("/supplier-settlements/history/:supplier_id", adminHandler.GetSupplierSettlementHistory)
			settlements.GET("/supplier-settlements/:id", adminHandler.GetSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/submit", adminHandler.SubmitSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/approve", adminHandler.ApproveSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/process", adminHandler.ProcessSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/pay", adminHandler.PaySupplierSettlement)
			settlements.POST("/supplier-settlements/:id/fail", adminHandler.FailSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/retry", adminHandler.RetrySupplierSettlement)
			settlements.POST("/supplier-settlements/:id/dispute", adminHandler.DisputeSupplierSettlement)
			settlements.POST("/supplier-settlements/:id/resolve", adminHandler.ResolveSupplierSettlement)

			// 统计与关账
			settlements.GET("/statistics", adminHandler.GetSettlementStatistics)
			settlements.POST("/period-close", adminHandler.ClosePeriod)
		}

		storeHub := apiV1.Group("/store-hub")
		{
			storeHub.GET("/overview", storeHubHandler.GetOverview)
			storeHub.GET("/kpi-summary", storeHubHandler.GetKpiSummary)
			storeHub.GET("/live-signals", storeHubHandler.GetLiveSignals)
			storeHub.GET("/channels", storeHubHandler.GetChannels)
			storeHub.POST("/channels", storeHubHandler.CreateChannel)
		}

		// 角色与策略管理，仅 admin 的 /* 策略可命中
		authzGroup := apiV1.Group("/authz")
		{
			authzGroup.GET("/roles", adminHandler.GetAuthzRoles)
			authzGroup.POST("/roles", adminHandler.CreateAuthzRole)
			authzGroup.DELETE("/roles/:role", adminHandler.DeleteAuthzRole)
			authzGroup.GET("/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			authzGroup.POST("/policies", adminHandler.GrantAuthzPolicy)
			authzGroup.DELETE("/policies", adminHandler.RevokeAuthzPolicy)
			authzGroup.GET("/audit-logs", adminHandler.GetAuthzAuditLogs)
		}
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled && c.Metrics != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	return r
}
