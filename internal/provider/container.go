package provider

import (
	"github.com/o4o-platform/settlement/internal/authz"
	"github.com/o4o-platform/settlement/internal/cache"
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/metrics"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/repository"
	"github.com/o4o-platform/settlement/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Repositories
	FeePolicyRepo            repository.FeePolicyRepository
	PartnerRepo              repository.PartnerRepository
	SettlementSourceRepo     repository.SettlementSourceRepository
	VendorCommissionRepo     repository.VendorCommissionRepository
	CommissionSettlementRepo repository.CommissionSettlementRepository
	StoreHubRepo             repository.StoreHubRepository
	ChannelRepo              repository.ChannelRepository
	AuthzAuditLogRepo        repository.AuthzAuditLogRepository

	// Services
	AuthzService                *authz.Service
	AuthzAuditService           *service.AuthzAuditService
	FeePolicyService            *service.FeePolicyService
	CommissionService           *service.CommissionService
	SettlementService           *service.SettlementService
	SettlementStatisticsService *service.SettlementStatisticsService
	PeriodCloseService          *service.PeriodCloseService
	StoreHubService             *service.StoreHubService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时返回同步执行的空客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices(models.DB)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.FeePolicyRepo = repository.NewFeePolicyRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.SettlementSourceRepo = repository.NewSettlementSourceRepository(db)
	c.VendorCommissionRepo = repository.NewVendorCommissionRepository(db)
	c.CommissionSettlementRepo = repository.NewCommissionSettlementRepository(db)
	c.StoreHubRepo = repository.NewStoreHubRepository(db)
	c.ChannelRepo = repository.NewChannelRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)

	settlementCfg := c.Config.Settlement
	c.FeePolicyService = service.NewFeePolicyService(c.FeePolicyRepo, settlementCfg, c.Metrics)
	c.CommissionService = service.NewCommissionService(c.VendorCommissionRepo, c.PartnerRepo, c.SettlementSourceRepo, settlementCfg, c.Metrics)
	c.SettlementService = service.NewSettlementService(c.CommissionSettlementRepo, c.PartnerRepo, c.SettlementSourceRepo, settlementCfg, c.Metrics)
	c.SettlementStatisticsService = service.NewSettlementStatisticsService(c.VendorCommissionRepo, c.CommissionSettlementRepo, c.CommissionService.Location())
	c.PeriodCloseService = service.NewPeriodCloseService(c.CommissionService, c.SettlementService, c.QueueClient, settlementCfg)
	c.StoreHubService = service.NewStoreHubService(c.StoreHubRepo, c.ChannelRepo, c.Config.StoreHub, settlementCfg.Timezone, c.Metrics)
}
