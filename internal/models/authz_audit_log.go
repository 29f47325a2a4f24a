package models

import "time"

// AuthzAuditLog 角色与策略变更审计日志
type AuthzAuditLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OperatorUserID uint      `gorm:"index;not null" json:"operatorUserId"`                        // 操作人（令牌 user_id）
	OperatorRole   string    `gorm:"type:varchar(64);not null;default:''" json:"operatorRole"`    // 操作人当时的角色
	Action         string    `gorm:"type:varchar(64);index;not null" json:"action"`               // role_create / role_delete / policy_grant / policy_revoke
	Role           string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`     // 目标角色
	Object         string    `gorm:"type:varchar(255);not null;default:''" json:"object"`         // 策略路径
	Method         string    `gorm:"type:varchar(20);not null;default:''" json:"method"`          // 策略动作
	RequestID      string    `gorm:"type:varchar(64);index;not null;default:''" json:"requestId"` // 请求 ID
	DetailJSON     JSON      `gorm:"type:json" json:"detail"`                                     // 附加信息
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`                                      // 创建时间
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
