package models

import "time"

// ContentSlot 门店内容位（上游业务表，本服务只读）
type ContentSlot struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organizationId"`
	SlotKey        string    `gorm:"type:varchar(64);not null" json:"slotKey"`
	IsActive       bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName 指定表名
func (ContentSlot) TableName() string {
	return "content_slots"
}

// SignageContent 电子屏内容（上游业务表，本服务只读）
type SignageContent struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organizationId"`
	Title          string    `gorm:"type:varchar(200)" json:"title"`
	Status         string    `gorm:"type:varchar(20);not null;index" json:"status"` // active / draft / archived
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName 指定表名
func (SignageContent) TableName() string {
	return "signage_contents"
}

// ChannelListing 渠道商品上架记录（上游业务表，本服务只读）
type ChannelListing struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organizationId"`
	ChannelID      uint      `gorm:"not null;index" json:"channelId"`
	ProductID      uint      `gorm:"not null;index" json:"productId"`
	IsActive       bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName 指定表名
func (ChannelListing) TableName() string {
	return "channel_listings"
}

// OrganizationChannel 门店销售渠道申请
// 同一门店同一渠道类型只允许一条记录。
type OrganizationChannel struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_org_channel_type" json:"organizationId"`
	ChannelType    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_org_channel_type" json:"channelType"` // B2C / KIOSK / TABLET / SIGNAGE
	Name           string    `gorm:"type:varchar(120)" json:"name"`
	Status         string    `gorm:"type:varchar(20);not null;index" json:"status"` // PENDING / APPROVED / REJECTED / SUSPENDED
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (OrganizationChannel) TableName() string {
	return "organization_channels"
}
