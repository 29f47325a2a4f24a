package repository

import (
	"errors"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository 商户 / 供应商只读访问接口
type PartnerRepository interface {
	GetVendor(id uint) (*models.Vendor, error)
	GetSupplier(id uint) (*models.Supplier, error)
	ListActiveVendorIDs() ([]uint, error)
	ListActiveSupplierIDs() ([]uint, error)
}

// GormPartnerRepository GORM 实现
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建商户 / 供应商仓库
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// GetVendor 根据 ID 获取商户
func (r *GormPartnerRepository) GetVendor(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetSupplier 根据 ID 获取供应商
func (r *GormPartnerRepository) GetSupplier(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

// ListActiveVendorIDs 获取启用商户 ID
func (r *GormPartnerRepository) ListActiveVendorIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Vendor{}).
		Where("status = ?", constants.PartnerStatusActive).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActiveSupplierIDs 获取启用供应商 ID
func (r *GormPartnerRepository) ListActiveSupplierIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Supplier{}).
		Where("status = ?", constants.PartnerStatusActive).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
