package models

import (
	"time"

	"gorm.io/gorm"
)

// FeeCondition 费率策略匹配条件
type FeeCondition struct {
	Key      string      `json:"key"`             // 上下文字段：categoryId / vendorTier / paymentMethod / orderAmount
	Operator string      `json:"operator"`        // equals / greater_than / less_than / in / not_in
	Value    interface{} `json:"value"`           // 比较值，in / not_in 为数组
	Label    string      `json:"label,omitempty"` // 展示名称
}

// FeePolicy 平台费率策略表
type FeePolicy struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`                // 策略名称
	Type        string         `gorm:"type:varchar(32);not null;index" json:"type"`           // 策略类型
	BaseRate    Rate           `gorm:"type:decimal(10,4);not null;default:0" json:"baseRate"` // 费率（百分比）
	MinFee      *Money         `gorm:"type:decimal(20,2)" json:"minFee"`                      // 最低收费
	MaxFee      *Money         `gorm:"type:decimal(20,2)" json:"maxFee"`                      // 最高收费（空或 0 表示不限）
	IsActive    bool           `gorm:"not null;default:true;index" json:"isActive"`           // 是否启用
	Conditions  FeeConditions  `gorm:"type:json" json:"conditions"`                           // 匹配条件
	Description string         `gorm:"type:varchar(500)" json:"description"`                  // 说明
	SortOrder   int            `gorm:"not null;default:0;index" json:"sortOrder"`             // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`                                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updatedAt"`                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (FeePolicy) TableName() string {
	return "fee_policies"
}
