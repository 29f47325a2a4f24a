package service

import (
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"
)

// AuthzAuditRecordInput 权限审计记录输入
type AuthzAuditRecordInput struct {
	OperatorUserID uint
	OperatorRole   string
	Action         string
	Role           string
	Object         string
	Method         string
	RequestID      string
	Detail         models.JSON
}

// AuthzAuditService 权限审计服务
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAuthzAuditService 创建权限审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 记录权限审计日志，缺少操作人或动作时忽略
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorUserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AuthzAuditLog{
		OperatorUserID: input.OperatorUserID,
		OperatorRole:   strings.ToLower(strings.TrimSpace(input.OperatorRole)),
		Action:         strings.TrimSpace(input.Action),
		Role:           strings.TrimSpace(input.Role),
		Object:         strings.TrimSpace(input.Object),
		Method:         strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:      strings.TrimSpace(input.RequestID),
		DetailJSON:     input.Detail,
		CreatedAt:      time.Now(),
	}
	return s.repo.Create(item)
}

// List 查询权限审计日志
func (s *AuthzAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
