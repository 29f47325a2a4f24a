package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorCommissionRepository 商户佣金数据访问接口
type VendorCommissionRepository interface {
	List(filter VendorCommissionListFilter) ([]models.VendorCommission, int64, error)
	ListPayable(page, pageSize int) ([]models.VendorCommission, int64, error)
	ListHistory(vendorID uint, limit int) ([]models.VendorCommission, error)
	GetByID(id uint) (*models.VendorCommission, error)
	GetByVendorPeriod(vendorID uint, period string) (*models.VendorCommission, error)
	Create(commission *models.VendorCommission) error
	Update(commission *models.VendorCommission) error
	SumTotalPayable(ctx context.Context, period string, statuses []string) (decimal.Decimal, error)
}

// GormVendorCommissionRepository GORM 实现
type GormVendorCommissionRepository struct {
	db *gorm.DB
}

// NewVendorCommissionRepository 创建商户佣金仓库
func NewVendorCommissionRepository(db *gorm.DB) *GormVendorCommissionRepository {
	return &GormVendorCommissionRepository{db: db}
}

// List 佣金列表
func (r *GormVendorCommissionRepository) List(filter VendorCommissionListFilter) ([]models.VendorCommission, int64, error) {
	var rows []models.VendorCommission
	query := r.db.Model(&models.VendorCommission{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if period := strings.TrimSpace(filter.Period); period != "" {
		query = query.Where("period = ?", period)
	}

	total, err := findPage(query, filter.Page, filter.PageSize, "period DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListPayable 待付款佣金（已审批且无争议）
func (r *GormVendorCommissionRepository) ListPayable(page, pageSize int) ([]models.VendorCommission, int64, error) {
	var rows []models.VendorCommission
	query := r.db.Model(&models.VendorCommission{}).
		Where("status = ? AND is_disputed = ?", constants.CommissionStatusApproved, false)

	total, err := findPage(query, page, pageSize, "period ASC, id ASC", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListHistory 商户最近 N 个周期的佣金记录
func (r *GormVendorCommissionRepository) ListHistory(vendorID uint, limit int) ([]models.VendorCommission, error) {
	var rows []models.VendorCommission
	query := r.db.Where("vendor_id = ?", vendorID).Order("period DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID 根据 ID 获取佣金记录
func (r *GormVendorCommissionRepository) GetByID(id uint) (*models.VendorCommission, error) {
	var row models.VendorCommission
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByVendorPeriod 根据商户与周期获取佣金记录
func (r *GormVendorCommissionRepository) GetByVendorPeriod(vendorID uint, period string) (*models.VendorCommission, error) {
	var row models.VendorCommission
	if err := r.db.Where("vendor_id = ? AND period = ?", vendorID, period).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create 创建佣金记录
func (r *GormVendorCommissionRepository) Create(commission *models.VendorCommission) error {
	return r.db.Create(commission).Error
}

// Update 更新佣金记录
func (r *GormVendorCommissionRepository) Update(commission *models.VendorCommission) error {
	return r.db.Save(commission).Error
}

// SumTotalPayable 汇总指定状态的应付金额，period / statuses 为空表示不限
func (r *GormVendorCommissionRepository) SumTotalPayable(ctx context.Context, period string, statuses []string) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.VendorCommission{})
	if period != "" {
		query = query.Where("period = ?", period)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return sumDecimal(query, "total_payable")
}
