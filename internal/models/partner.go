package models

import "time"

// Vendor 商户（上游业务表，本服务只读）
type Vendor struct {
	ID             uint      `gorm:"primarykey" json:"id"`                          // 主键
	Name           string    `gorm:"type:varchar(120);not null" json:"name"`        // 商户名称
	Status         string    `gorm:"type:varchar(20);not null;index" json:"status"` // active / inactive
	Tier           string    `gorm:"type:varchar(32);index" json:"tier"`            // 商户等级
	CommissionRate *Rate     `gorm:"type:decimal(10,4)" json:"commissionRate"`      // 专属佣金比例，空则使用默认
	CreatedAt      time.Time `json:"createdAt"`                                     // 创建时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}

// Supplier 供应商（上游业务表，本服务只读）
type Supplier struct {
	ID                     uint      `gorm:"primarykey" json:"id"`                             // 主键
	Name                   string    `gorm:"type:varchar(120);not null" json:"name"`           // 供应商名称
	Status                 string    `gorm:"type:varchar(20);not null;index" json:"status"`    // active / inactive
	PlatformCommissionRate *Rate     `gorm:"type:decimal(10,4)" json:"platformCommissionRate"` // 平台抽成比例，空则使用默认
	CreatedAt              time.Time `json:"createdAt"`                                        // 创建时间
}

// TableName 指定表名
func (Supplier) TableName() string {
	return "suppliers"
}
