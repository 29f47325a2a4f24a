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

// CommissionSettlementRepository 供应商结算数据访问接口
type CommissionSettlementRepository interface {
	List(filter SettlementListFilter) ([]models.CommissionSettlement, int64, error)
	ListPayable(page, pageSize int) ([]models.CommissionSettlement, int64, error)
	ListHistory(supplierID uint, limit int) ([]models.CommissionSettlement, error)
	GetByID(id uint) (*models.CommissionSettlement, error)
	GetBySupplierPeriod(supplierID uint, period string) (*models.CommissionSettlement, error)
	Create(settlement *models.CommissionSettlement) error
	Update(settlement *models.CommissionSettlement) error
	SumTotalPayable(ctx context.Context, period string, statuses []string) (decimal.Decimal, error)
}

// GormCommissionSettlementRepository GORM 实现
type GormCommissionSettlementRepository struct {
	db *gorm.DB
}

// NewCommissionSettlementRepository 创建供应商结算仓库
func NewCommissionSettlementRepository(db *gorm.DB) *GormCommissionSettlementRepository {
	return &GormCommissionSettlementRepository{db: db}
}

// List 结算单列表
func (r *GormCommissionSettlementRepository) List(filter SettlementListFilter) ([]models.CommissionSettlement, int64, error) {
	var rows []models.CommissionSettlement
	query := r.db.Model(&models.CommissionSettlement{})
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
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

// ListPayable 待付款结算单（已审批且无争议）
func (r *GormCommissionSettlementRepository) ListPayable(page, pageSize int) ([]models.CommissionSettlement, int64, error) {
	var rows []models.CommissionSettlement
	query := r.db.Model(&models.CommissionSettlement{}).
		Where("status = ? AND has_dispute = ?", constants.SettlementStatusApproved, false)

	total, err := findPage(query, page, pageSize, "period ASC, id ASC", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListHistory 供应商最近 N 个周期的结算单
func (r *GormCommissionSettlementRepository) ListHistory(supplierID uint, limit int) ([]models.CommissionSettlement, error) {
	var rows []models.CommissionSettlement
	query := r.db.Where("supplier_id = ?", supplierID).Order("period DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID 根据 ID 获取结算单
func (r *GormCommissionSettlementRepository) GetByID(id uint) (*models.CommissionSettlement, error) {
	var row models.CommissionSettlement
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetBySupplierPeriod 根据供应商与周期获取结算单
func (r *GormCommissionSettlementRepository) GetBySupplierPeriod(supplierID uint, period string) (*models.CommissionSettlement, error) {
	var row models.CommissionSettlement
	if err := r.db.Where("supplier_id = ? AND period = ?", supplierID, period).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create 创建结算单
func (r *GormCommissionSettlementRepository) Create(settlement *models.CommissionSettlement) error {
	return r.db.Create(settlement).Error
}

// Update 更新结算单
func (r *GormCommissionSettlementRepository) Update(settlement *models.CommissionSettlement) error {
	return r.db.Save(settlement).Error
}

// SumTotalPayable 汇总指定状态的应付金额，period / statuses 为空表示不限
func (r *GormCommissionSettlementRepository) SumTotalPayable(ctx context.Context, period string, statuses []string) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionSettlement{})
	if period != "" {
		query = query.Where("period = ?", period)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return sumDecimal(query, "total_payable")
}
