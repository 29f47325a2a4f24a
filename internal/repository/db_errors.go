package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeUndefinedTable  = "42P01"
)

// 查询失败分类
const (
	FailureMissingRelation = "missing_relation"
	FailureTimeout         = "timeout"
	FailureQuery           = "query_failed"
)

// IsUniqueViolation 判断是否唯一约束冲突（postgres / sqlite）
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if hasPGCode(err, pgCodeUniqueViolation) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsMissingRelation 判断是否表不存在
func IsMissingRelation(err error) bool {
	if err == nil {
		return false
	}
	if hasPGCode(err, pgCodeUndefinedTable) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such table")
}

// ClassifyQueryFailure 将查询错误归类为有限的标签值
func ClassifyQueryFailure(err error) string {
	switch {
	case IsMissingRelation(err):
		return FailureMissingRelation
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return FailureTimeout
	default:
		return FailureQuery
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
