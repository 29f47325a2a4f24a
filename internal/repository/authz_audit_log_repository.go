package repository

import (
	"time"

	"github.com/o4o-platform/settlement/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogRepository 权限变更审计
type AuthzAuditLogRepository interface {
	Create(entry *models.AuthzAuditLog) error
	List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error)
}

type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// Create 审计只追加，nil 忽略
func (r *GormAuthzAuditLogRepository) Create(entry *models.AuthzAuditLog) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}

// List 最新在前
func (r *GormAuthzAuditLogRepository) List(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	query := r.db.Model(&models.AuthzAuditLog{})
	if filter.OperatorUserID != 0 {
		query = query.Where("operator_user_id = ?", filter.OperatorUserID)
	}
	for column, value := range map[string]string{"action": filter.Action, "role": filter.Role} {
		if value != "" {
			query = query.Where(column+" = ?", value)
		}
	}
	query = createdBetween(query, filter.CreatedFrom, filter.CreatedTo)

	logs := make([]models.AuthzAuditLog, 0)
	total, err := findPage(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// createdBetween 闭区间，任一端为 nil 时不限
func createdBetween(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = timeBound(query, "created_at", ">=", *from)
	}
	if to != nil {
		query = timeBound(query, "created_at", "<=", *to)
	}
	return query
}
