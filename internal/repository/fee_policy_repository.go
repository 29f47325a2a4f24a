package repository

import (
	"errors"
	"strings"

	"github.com/o4o-platform/settlement/internal/models"

	"gorm.io/gorm"
)

// FeePolicyRepository 费率策略数据访问接口
type FeePolicyRepository interface {
	List(filter FeePolicyListFilter) ([]models.FeePolicy, int64, error)
	ListActive() ([]models.FeePolicy, error)
	GetByID(id uint) (*models.FeePolicy, error)
	Create(policy *models.FeePolicy) error
	Update(policy *models.FeePolicy) error
	Delete(id uint) error
	SetActive(id uint, isActive bool) error
}

// GormFeePolicyRepository GORM 实现
type GormFeePolicyRepository struct {
	db *gorm.DB
}

// NewFeePolicyRepository 创建费率策略仓库
func NewFeePolicyRepository(db *gorm.DB) *GormFeePolicyRepository {
	return &GormFeePolicyRepository{db: db}
}

// List 费率策略列表
func (r *GormFeePolicyRepository) List(filter FeePolicyListFilter) ([]models.FeePolicy, int64, error) {
	var policies []models.FeePolicy
	query := r.db.Model(&models.FeePolicy{})

	if policyType := strings.TrimSpace(filter.Type); policyType != "" {
		query = query.Where("type = ?", policyType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	query = keywordFilter(query, filter.Search, "name", "description")

	total, err := findPage(query, filter.Page, filter.PageSize, "sort_order DESC, id ASC", &policies)
	if err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

// ListActive 获取全部启用策略
func (r *GormFeePolicyRepository) ListActive() ([]models.FeePolicy, error) {
	var policies []models.FeePolicy
	if err := r.db.Where("is_active = ?", true).Order("sort_order DESC, id ASC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// GetByID 根据 ID 获取费率策略
func (r *GormFeePolicyRepository) GetByID(id uint) (*models.FeePolicy, error) {
	var policy models.FeePolicy
	if err := r.db.First(&policy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

// Create 创建费率策略
func (r *GormFeePolicyRepository) Create(policy *models.FeePolicy) error {
	return r.db.Create(policy).Error
}

// Update 更新费率策略
func (r *GormFeePolicyRepository) Update(policy *models.FeePolicy) error {
	return r.db.Save(policy).Error
}

// Delete 软删除费率策略
func (r *GormFeePolicyRepository) Delete(id uint) error {
	return r.db.Delete(&models.FeePolicy{}, id).Error
}

// SetActive 切换启用状态
func (r *GormFeePolicyRepository) SetActive(id uint, isActive bool) error {
	return r.db.Model(&models.FeePolicy{}).Where("id = ?", id).Update("is_active", isActive).Error
}
