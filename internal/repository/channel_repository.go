package repository

import (
	"github.com/o4o-platform/settlement/internal/models"

	"gorm.io/gorm"
)

// ChannelRepository 门店渠道数据访问接口
type ChannelRepository interface {
	ListByOrganization(organizationID uint) ([]models.OrganizationChannel, error)
	Create(channel *models.OrganizationChannel) error
}

// GormChannelRepository GORM 实现
type GormChannelRepository struct {
	db *gorm.DB
}

// NewChannelRepository 创建门店渠道仓库
func NewChannelRepository(db *gorm.DB) *GormChannelRepository {
	return &GormChannelRepository{db: db}
}

// ListByOrganization 获取门店全部渠道
func (r *GormChannelRepository) ListByOrganization(organizationID uint) ([]models.OrganizationChannel, error) {
	var channels []models.OrganizationChannel
	if err := r.db.Where("organization_id = ?", organizationID).Order("created_at ASC, id ASC").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// Create 创建渠道申请，唯一冲突由调用方判定
func (r *GormChannelRepository) Create(channel *models.OrganizationChannel) error {
	return r.db.Create(channel).Error
}
