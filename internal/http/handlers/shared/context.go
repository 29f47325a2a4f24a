package shared

import (
	"strconv"
	"strings"

	"github.com/o4o-platform/settlement/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入 gin.Context 的键
const (
	ContextKeyRequestID      = "request_id"
	ContextKeyUserID         = "user_id"
	ContextKeyOrganizationID = "organization_id"
	ContextKeyRole           = "role"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UserID 当前令牌用户，未鉴权时为 0
func UserID(c *gin.Context) uint {
	return contextUint(c, ContextKeyUserID)
}

// Operator 审批、付款等记录里的操作人标识
func Operator(c *gin.Context) string {
	if id := UserID(c); id > 0 {
		return strconv.FormatUint(uint64(id), 10)
	}
	return ""
}

// RequireOrganizationID 读取令牌绑定的组织，缺失或为 0 时直接写入 400
func RequireOrganizationID(c *gin.Context) (uint, bool) {
	if _, exists := c.Get(ContextKeyOrganizationID); !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id := contextUint(c, ContextKeyOrganizationID)
	if id == 0 {
		RespondError(c, response.CodeBadRequest, "error.organization_required", nil)
		return 0, false
	}
	return id, true
}

// contextUint 兼容 JWT 数字声明解码出的 float64
func contextUint(c *gin.Context, key string) uint {
	value, exists := c.Get(key)
	if !exists {
		return 0
	}
	switch v := value.(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

// PathUint 解析路径中的正整数 ID
func PathUint(c *gin.Context, key string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || parsed == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(parsed), true
}

// QueryUint 解析可选的查询 ID，空值返回 0
func QueryUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(parsed), true
}

// PageQuery 读取 page / page_size 并归一化
func PageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	return NormalizePagination(page, pageSize)
}

// NormalizePagination 页码至少为 1，page_size 限制在 1..100
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// PageOf 组装分页信息
func PageOf(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
