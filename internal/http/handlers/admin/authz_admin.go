package admin

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/authz"
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/repository"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthzRoleRequest 创建角色请求
type AuthzRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AuthzPolicyRequest 授予/撤销策略请求
type AuthzPolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GetAuthzRoles 获取角色列表
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req AuthzRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(strings.ToLower(req.Role))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		Action: "role_create",
		Role:   role,
		Detail: models.JSON{"role": role},
	})
	requestLog(c).Infow("admin_authz_role_created", "operator", handlershared.Operator(c), "role", role)
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole 删除自定义角色
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.AuthzService.DeleteRole(role); err != nil {
		if errors.Is(err, authz.ErrImmutableRole) {
			respondError(c, response.CodeConflict, "error.role_immutable", err)
			return
		}
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		Action: "role_delete",
		Role:   role,
		Detail: models.JSON{"role": role},
	})
	requestLog(c).Infow("admin_authz_role_deleted", "operator", handlershared.Operator(c), "role", role)
	response.Success(c, nil)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "policy_grant", h.AuthzService.GrantRolePolicy)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "policy_revoke", h.AuthzService.RevokeRolePolicy)
}

func (h *Handler) changeAuthzPolicy(c *gin.Context, action string, apply func(role, object, action string) error) {
	var req AuthzPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if err := apply(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	object := authz.NormalizeObject(req.Object)
	method := authz.NormalizeAction(req.Action)
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		Action: action,
		Role:   role,
		Object: object,
		Method: method,
		Detail: models.JSON{"role": role, "object": object, "method": method},
	})
	requestLog(c).Infow("admin_authz_"+action,
		"operator", handlershared.Operator(c),
		"role", role,
		"object", object,
		"action", method,
	)
	response.Success(c, nil)
}

// GetAuthzAuditLogs 获取权限审计日志
func (h *Handler) GetAuthzAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	operatorUserID, ok := handlershared.QueryUint(c, "operator_user_id")
	if !ok {
		return
	}
	createdFrom, err := parseTimeQuery(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeQuery(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.AuthzAuditService.List(repository.AuthzAuditLogListFilter{
		Page:           page,
		PageSize:       pageSize,
		OperatorUserID: operatorUserID,
		Action:         strings.TrimSpace(c.Query("action")),
		Role:           strings.TrimSpace(c.Query("role")),
		CreatedFrom:    createdFrom,
		CreatedTo:      createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, handlershared.PageOf(page, pageSize, total))
}

func (h *Handler) recordAuthzAudit(c *gin.Context, input service.AuthzAuditRecordInput) {
	if h == nil || h.AuthzAuditService == nil {
		return
	}
	input.OperatorUserID = handlershared.UserID(c)
	input.OperatorRole = c.GetString(handlershared.ContextKeyRole)
	input.RequestID = c.GetString(handlershared.ContextKeyRequestID)
	if err := h.AuthzAuditService.Record(input); err != nil {
		requestLog(c).Warnw("admin_authz_audit_record_failed", "action", input.Action, "error", err)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return strings.ToLower(strings.TrimSpace(decoded))
}

// parseTimeQuery 支持 RFC3339 与 YYYY-MM-DD，空值返回 nil
func parseTimeQuery(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
