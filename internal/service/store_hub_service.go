package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/o4o-platform/settlement/internal/cache"
	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/metrics"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	storeHubOverviewNamespace = "store_hub:overview"
	storeHubKpiNamespace      = "store_hub:kpi_summary"
)

var validChannelTypes = map[string]struct{}{
	constants.ChannelTypeB2C:     {},
	constants.ChannelTypeKiosk:   {},
	constants.ChannelTypeTablet:  {},
	constants.ChannelTypeSignage: {},
}

// ProductsSummary 渠道与商品上架概况
type ProductsSummary struct {
	Channels       int64 `json:"channels"`
	Listings       int64 `json:"listings"`
	ActiveListings int64 `json:"activeListings"`
	Available      bool  `json:"available"`
}

// ContentsSummary 内容位概况
type ContentsSummary struct {
	TotalSlots  int64 `json:"totalSlots"`
	ActiveSlots int64 `json:"activeSlots"`
	Available   bool  `json:"available"`
}

// SignageSummary 电子屏内容概况
type SignageSummary struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Available bool  `json:"available"`
}

// StoreHubOverview 门店总览
type StoreHubOverview struct {
	Products ProductsSummary `json:"products"`
	Contents ContentsSummary `json:"contents"`
	Signage  SignageSummary  `json:"signage"`
}

// StoreHubKpiSummary 门店经营指标
type StoreHubKpiSummary struct {
	TodayOrders      int64        `json:"todayOrders"`
	WeekOrders       int64        `json:"weekOrders"`
	MonthOrders      int64        `json:"monthOrders"`
	MonthRevenue     models.Money `json:"monthRevenue"`
	AvgOrderValue    models.Money `json:"avgOrderValue"`
	LastMonthRevenue models.Money `json:"lastMonthRevenue"`
	Unavailable      []string     `json:"unavailable"`
}

// StoreHubLiveSignals 门店实时信号（不缓存）
type StoreHubLiveSignals struct {
	OrdersLastHour  int64     `json:"ordersLastHour"`
	PendingOrders   int64     `json:"pendingOrders"`
	PendingChannels int64     `json:"pendingChannels"`
	ActiveSignage   int64     `json:"activeSignage"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Unavailable     []string  `json:"unavailable"`
}

// CreateChannelInput 渠道申请输入
type CreateChannelInput struct {
	ChannelType string
	Name        string
}

// storeHubSection 单个数据分区，失败时由调用方降级为零值
type storeHubSection struct {
	name string
	run  func(ctx context.Context) error
}

// StoreHubService 门店聚合看板服务
type StoreHubService struct {
	repo         repository.StoreHubRepository
	channelRepo  repository.ChannelRepository
	metrics      *metrics.Metrics
	loc          *time.Location
	cacheTTL     time.Duration
	queryTimeout time.Duration
}

// NewStoreHubService 创建门店聚合服务
func NewStoreHubService(repo repository.StoreHubRepository, channelRepo repository.ChannelRepository, cfg config.StoreHubConfig, timezone string, m *metrics.Metrics) *StoreHubService {
	ttl := cfg.CacheTTLSeconds
	if ttl <= 0 {
		ttl = 30
	}
	timeout := cfg.QueryTimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	return &StoreHubService{
		repo:         repo,
		channelRepo:  channelRepo,
		metrics:      m,
		loc:          LoadLocation(timezone),
		cacheTTL:     time.Duration(ttl) * time.Second,
		queryTimeout: time.Duration(timeout) * time.Second,
	}
}

// GetOverview 门店总览（缓存）
func (s *StoreHubService) GetOverview(ctx context.Context, organizationID uint, forceRefresh bool) (*StoreHubOverview, error) {
	if organizationID == 0 {
		return nil, ErrInvalidOrganization
	}
	key := cache.HashKey(storeHubOverviewNamespace, organizationID, nil)
	overview, err := cache.Remember(ctx, key, s.cacheTTL, forceRefresh, func(ctx context.Context) (StoreHubOverview, error) {
		return s.loadOverview(ctx, organizationID), nil
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *StoreHubService) loadOverview(ctx context.Context, organizationID uint) StoreHubOverview {
	var overview StoreHubOverview
	failed := s.runSections(ctx, organizationID, []storeHubSection{
		{name: constants.StoreHubSectionProducts, run: func(ctx context.Context) error {
			channels, err := s.repo.CountChannels(ctx, organizationID, "")
			if err != nil {
				return err
			}
			listings, err := s.repo.CountListings(ctx, organizationID, false)
			if err != nil {
				return err
			}
			active, err := s.repo.CountListings(ctx, organizationID, true)
			if err != nil {
				return err
			}
			overview.Products = ProductsSummary{Channels: channels, Listings: listings, ActiveListings: active}
			return nil
		}},
		{name: constants.StoreHubSectionContents, run: func(ctx context.Context) error {
			total, err := s.repo.CountContentSlots(ctx, organizationID, false)
			if err != nil {
				return err
			}
			active, err := s.repo.CountContentSlots(ctx, organizationID, true)
			if err != nil {
				return err
			}
			overview.Contents = ContentsSummary{TotalSlots: total, ActiveSlots: active}
			return nil
		}},
		{name: constants.StoreHubSectionSignage, run: func(ctx context.Context) error {
			total, err := s.repo.CountSignage(ctx, organizationID, "")
			if err != nil {
				return err
			}
			active, err := s.repo.CountSignage(ctx, organizationID, constants.SignageStatusActive)
			if err != nil {
				return err
			}
			overview.Signage = SignageSummary{Total: total, Active: active}
			return nil
		}},
	})
	overview.Products.Available = !failed[constants.StoreHubSectionProducts]
	overview.Contents.Available = !failed[constants.StoreHubSectionContents]
	overview.Signage.Available = !failed[constants.StoreHubSectionSignage]
	return overview
}

// GetKpiSummary 门店经营指标（缓存）
func (s *StoreHubService) GetKpiSummary(ctx context.Context, organizationID uint, now time.Time, forceRefresh bool) (*StoreHubKpiSummary, error) {
	if organizationID == 0 {
		return nil, ErrInvalidOrganization
	}
	key := cache.HashKey(storeHubKpiNamespace, organizationID, nil)
	summary, err := cache.Remember(ctx, key, s.cacheTTL, forceRefresh, func(ctx context.Context) (StoreHubKpiSummary, error) {
		return s.loadKpiSummary(ctx, organizationID, now), nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *StoreHubService) loadKpiSummary(ctx context.Context, organizationID uint, now time.Time) StoreHubKpiSummary {
	local := now.In(s.loc)
	todayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	// 周一为一周开始
	weekStart := todayStart.AddDate(0, 0, -((int(todayStart.Weekday()) + 6) % 7))
	month := PeriodOf(now, s.loc)
	lastMonth := month.Previous()
	excluded := []string{constants.OrderStatusCancelled}
	revenueStatuses := []string{constants.OrderStatusPaid, constants.OrderStatusCompleted}

	var (
		todayOrders, weekOrders, monthOrders int64
		monthRevenue, lastMonthRevenue       decimal.Decimal
	)
	failed := s.runSections(ctx, organizationID, []storeHubSection{
		{name: constants.StoreHubSectionTodayOrders, run: func(ctx context.Context) error {
			count, err := s.repo.CountOrders(ctx, organizationID, todayStart, todayStart.AddDate(0, 0, 1), excluded)
			todayOrders = count
			return err
		}},
		{name: constants.StoreHubSectionWeekOrders, run: func(ctx context.Context) error {
			count, err := s.repo.CountOrders(ctx, organizationID, weekStart, weekStart.AddDate(0, 0, 7), excluded)
			weekOrders = count
			return err
		}},
		{name: constants.StoreHubSectionMonthOrders, run: func(ctx context.Context) error {
			count, err := s.repo.CountOrders(ctx, organizationID, month.Start, month.End, excluded)
			monthOrders = count
			return err
		}},
		{name: constants.StoreHubSectionMonthRevenue, run: func(ctx context.Context) error {
			sum, err := s.repo.SumRevenue(ctx, organizationID, month.Start, month.End, revenueStatuses)
			monthRevenue = sum
			return err
		}},
		{name: constants.StoreHubSectionLastMonth, run: func(ctx context.Context) error {
			sum, err := s.repo.SumRevenue(ctx, organizationID, lastMonth.Start, lastMonth.End, revenueStatuses)
			lastMonthRevenue = sum
			return err
		}},
	})
	if failed[constants.StoreHubSectionTodayOrders] {
		todayOrders = 0
	}
	if failed[constants.StoreHubSectionWeekOrders] {
		weekOrders = 0
	}
	if failed[constants.StoreHubSectionMonthOrders] {
		monthOrders = 0
	}
	if failed[constants.StoreHubSectionMonthRevenue] {
		monthRevenue = decimal.Zero
	}
	if failed[constants.StoreHubSectionLastMonth] {
		lastMonthRevenue = decimal.Zero
	}

	avg := decimal.Zero
	if monthOrders > 0 {
		avg = monthRevenue.Div(decimal.NewFromInt(monthOrders)).Round(2)
	}
	return StoreHubKpiSummary{
		TodayOrders:      todayOrders,
		WeekOrders:       weekOrders,
		MonthOrders:      monthOrders,
		MonthRevenue:     toMoney(monthRevenue),
		AvgOrderValue:    toMoney(avg),
		LastMonthRevenue: toMoney(lastMonthRevenue),
		Unavailable: unavailableSections(failed,
			constants.StoreHubSectionTodayOrders,
			constants.StoreHubSectionWeekOrders,
			constants.StoreHubSectionMonthOrders,
			constants.StoreHubSectionMonthRevenue,
			constants.StoreHubSectionLastMonth,
		),
	}
}

// GetLiveSignals 门店实时信号
func (s *StoreHubService) GetLiveSignals(ctx context.Context, organizationID uint, now time.Time) (*StoreHubLiveSignals, error) {
	if organizationID == 0 {
		return nil, ErrInvalidOrganization
	}
	signals := &StoreHubLiveSignals{GeneratedAt: now}
	var ordersLastHour, pendingOrders, pendingChannels, activeSignage int64
	failed := s.runSections(ctx, organizationID, []storeHubSection{
		{name: constants.StoreHubSectionOrdersLastHour, run: func(ctx context.Context) error {
			count, err := s.repo.CountOrders(ctx, organizationID, now.Add(-time.Hour), now, []string{constants.OrderStatusCancelled})
			ordersLastHour = count
			return err
		}},
		{name: constants.StoreHubSectionPendingOrders, run: func(ctx context.Context) error {
			count, err := s.repo.CountOrdersByStatus(ctx, organizationID, constants.OrderStatusPending)
			pendingOrders = count
			return err
		}},
		{name: constants.StoreHubSectionPendingChannels, run: func(ctx context.Context) error {
			count, err := s.repo.CountChannels(ctx, organizationID, constants.ChannelStatusPending)
			pendingChannels = count
			return err
		}},
		{name: constants.StoreHubSectionActiveSignage, run: func(ctx context.Context) error {
			count, err := s.repo.CountSignage(ctx, organizationID, constants.SignageStatusActive)
			activeSignage = count
			return err
		}},
	})
	if !failed[constants.StoreHubSectionOrdersLastHour] {
		signals.OrdersLastHour = ordersLastHour
	}
	if !failed[constants.StoreHubSectionPendingOrders] {
		signals.PendingOrders = pendingOrders
	}
	if !failed[constants.StoreHubSectionPendingChannels] {
		signals.PendingChannels = pendingChannels
	}
	if !failed[constants.StoreHubSectionActiveSignage] {
		signals.ActiveSignage = activeSignage
	}
	signals.Unavailable = unavailableSections(failed,
		constants.StoreHubSectionOrdersLastHour,
		constants.StoreHubSectionPendingOrders,
		constants.StoreHubSectionPendingChannels,
		constants.StoreHubSectionActiveSignage,
	)
	return signals, nil
}

// ListChannels 门店渠道列表
func (s *StoreHubService) ListChannels(organizationID uint) ([]models.OrganizationChannel, error) {
	if organizationID == 0 {
		return nil, ErrInvalidOrganization
	}
	return s.channelRepo.ListByOrganization(organizationID)
}

// CreateChannel 申请新渠道，初始状态 PENDING
func (s *StoreHubService) CreateChannel(ctx context.Context, organizationID uint, input CreateChannelInput) (*models.OrganizationChannel, error) {
	if organizationID == 0 {
		return nil, ErrInvalidOrganization
	}
	channelType := strings.ToUpper(strings.TrimSpace(input.ChannelType))
	if _, ok := validChannelTypes[channelType]; !ok {
		return nil, ErrInvalidChannel
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = channelType
	}
	channel := &models.OrganizationChannel{
		OrganizationID: organizationID,
		ChannelType:    channelType,
		Name:           name,
		Status:         constants.ChannelStatusPending,
	}
	if err := s.channelRepo.Create(channel); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateRecord
		}
		return nil, err
	}
	key := cache.HashKey(storeHubOverviewNamespace, organizationID, nil)
	if err := cache.Del(ctx, key); err != nil {
		logger.Warnw("store_hub_cache_invalidate_failed", "organization_id", organizationID, "key", key, "error", err)
	}
	logger.Infow("store_hub_channel_requested", "organization_id", organizationID, "channel_type", channelType, "channel_id", channel.ID)
	return channel, nil
}

// runSections 并发执行各分区，返回失败分区集合；分区错误不会传播给 errgroup
func (s *StoreHubService) runSections(ctx context.Context, organizationID uint, sections []storeHubSection) map[string]bool {
	failed := make(map[string]bool, len(sections))
	var mu sync.Mutex
	var g errgroup.Group
	for _, section := range sections {
		section := section
		g.Go(func() error {
			sectionCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
			defer cancel()
			if err := section.run(sectionCtx); err != nil {
				reason := repository.ClassifyQueryFailure(err)
				s.metrics.RecordSectionDegraded(section.name, reason)
				logger.Warnw("store_hub_section_degraded",
					"organization_id", organizationID,
					"section", section.name,
					"reason", reason,
					"error", err,
				)
				mu.Lock()
				failed[section.name] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}

func unavailableSections(failed map[string]bool, ordered ...string) []string {
	result := make([]string, 0, len(failed))
	for _, name := range ordered {
		if failed[name] {
			result = append(result, name)
		}
	}
	return result
}
