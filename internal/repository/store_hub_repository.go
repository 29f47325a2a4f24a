package repository

import (
	"context"
	"time"

	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreHubRepository 门店聚合查询接口
// 说明：每个方法只读一张表，由上层决定失败降级。
type StoreHubRepository interface {
	CountChannels(ctx context.Context, organizationID uint, status string) (int64, error)
	CountListings(ctx context.Context, organizationID uint, onlyActive bool) (int64, error)
	CountContentSlots(ctx context.Context, organizationID uint, onlyActive bool) (int64, error)
	CountSignage(ctx context.Context, organizationID uint, status string) (int64, error)
	CountOrders(ctx context.Context, organizationID uint, startAt, endAt time.Time, excludeStatuses []string) (int64, error)
	CountOrdersByStatus(ctx context.Context, organizationID uint, status string) (int64, error)
	SumRevenue(ctx context.Context, organizationID uint, startAt, endAt time.Time, statuses []string) (decimal.Decimal, error)
}

// GormStoreHubRepository GORM 实现
type GormStoreHubRepository struct {
	db *gorm.DB
}

// NewStoreHubRepository 创建门店聚合仓库
func NewStoreHubRepository(db *gorm.DB) *GormStoreHubRepository {
	return &GormStoreHubRepository{db: db}
}

// CountChannels 统计门店渠道数，status 为空表示全部
func (r *GormStoreHubRepository) CountChannels(ctx context.Context, organizationID uint, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrganizationChannel{}).Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountListings 统计渠道上架商品数
func (r *GormStoreHubRepository) CountListings(ctx context.Context, organizationID uint, onlyActive bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChannelListing{}).Where("organization_id = ?", organizationID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountContentSlots 统计内容位
func (r *GormStoreHubRepository) CountContentSlots(ctx context.Context, organizationID uint, onlyActive bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentSlot{}).Where("organization_id = ?", organizationID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountSignage 统计电子屏内容，status 为空表示全部
func (r *GormStoreHubRepository) CountSignage(ctx context.Context, organizationID uint, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SignageContent{}).Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountOrders 统计窗口 [startAt, endAt) 内的订单数
func (r *GormStoreHubRepository) CountOrders(ctx context.Context, organizationID uint, startAt, endAt time.Time, excludeStatuses []string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("organization_id = ?", organizationID)
	query = timeWindow(query, "created_at", startAt, endAt)
	if len(excludeStatuses) > 0 {
		query = query.Where("status NOT IN ?", excludeStatuses)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountOrdersByStatus 统计指定状态订单数
func (r *GormStoreHubRepository) CountOrdersByStatus(ctx context.Context, organizationID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("organization_id = ? AND status = ?", organizationID, status).
		Count(&count).Error
	return count, err
}

// SumRevenue 汇总窗口内指定状态订单金额
func (r *GormStoreHubRepository) SumRevenue(ctx context.Context, organizationID uint, startAt, endAt time.Time, statuses []string) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("organization_id = ?", organizationID)
	query = timeWindow(query, "created_at", startAt, endAt)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return sumDecimal(query, "total_amount")
}
