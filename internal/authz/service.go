package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	roleAnchor      = "role:__anchor__"
)

// 令牌只携带角色，请求主体即角色本身
const settlementRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var (
	// ErrImmutableRole 内置角色不可删除
	ErrImmutableRole = errors.New("builtin role is immutable")
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrReservedRole 保留角色名
	ErrReservedRole = errors.New("reserved role is not allowed")
)

// Policy 角色在某个接口路径上的授权
type Policy struct {
	Role   string `json:"role,omitempty"`
	Object string `json:"object"`
	Action string `json:"action"`
}

// RoleInfo 角色概要
type RoleInfo struct {
	Role     string   `json:"role"`
	Inherits []string `json:"inherits"`
	Builtin  bool     `json:"builtin"`
}

// Service 基于 casbin 的接口级 RBAC，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(settlementRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceRole 判断令牌角色能否以 act 访问 obj
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(subject, NormalizeObject(obj), NormalizeAction(act))
}

// ReloadPolicy 从数据库重新加载策略
func (s *Service) ReloadPolicy() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.enforcer.LoadPolicy()
}

// EnsureRole 确保角色存在，返回不带前缀的角色名
func (s *Service) EnsureRole(role string) (string, error) {
	subject, err := s.assignableSubject(role)
	if err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return displayRole(subject), nil
}

// ListRoles 列出全部角色及其继承关系
func (s *Service) ListRoles() ([]RoleInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}

	parents := make(map[string][]string)
	for _, rule := range rules {
		if len(rule) < 2 || !isRoleSubject(rule[0]) {
			continue
		}
		child := displayRole(rule[0])
		if _, ok := parents[child]; !ok {
			parents[child] = []string{}
		}
		if isRoleSubject(rule[1]) {
			parents[child] = append(parents[child], displayRole(rule[1]))
		}
	}

	roles := make([]RoleInfo, 0, len(parents))
	for role, inherits := range parents {
		sort.Strings(inherits)
		roles = append(roles, RoleInfo{
			Role:     role,
			Inherits: inherits,
			Builtin:  IsImmutableRole(role),
		})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Role < roles[j].Role })
	return roles, nil
}

// DeleteRole 删除自定义角色、它的策略以及所有继承关系
func (s *Service) DeleteRole(role string) error {
	subject, err := s.assignableSubject(role)
	if err != nil {
		return err
	}
	if IsImmutableRole(subject) {
		return ErrImmutableRole
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, subject); err != nil {
		return fmt.Errorf("remove role policy failed: %w", err)
	}
	// 0 列为自身继承，1 列为其他角色对它的继承
	for _, field := range []int{0, 1} {
		if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", field, subject); err != nil {
			return fmt.Errorf("remove role link failed: %w", err)
		}
	}
	return nil
}

// GrantRolePolicy 为角色授予接口权限，角色不存在时自动创建
func (s *Service) GrantRolePolicy(role, object, action string) error {
	if _, err := s.EnsureRole(role); err != nil {
		return err
	}
	return s.updatePolicy(role, object, action, true)
}

// RevokeRolePolicy 撤销角色的接口权限
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	return s.updatePolicy(role, object, action, false)
}

func (s *Service) updatePolicy(role, object, action string, grant bool) error {
	subject, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return fmt.Errorf("action is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	obj := NormalizeObject(object)
	if grant {
		if _, err := s.enforcer.AddPolicy(subject, obj, act); err != nil {
			return fmt.Errorf("grant policy failed: %w", err)
		}
		return nil
	}
	if _, err := s.enforcer.RemovePolicy(subject, obj, act); err != nil {
		return fmt.Errorf("revoke policy failed: %w", err)
	}
	return nil
}

// GetRolePolicies 查询角色直接持有的策略，不含继承
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Role:   displayRole(rule[0]),
			Object: NormalizeObject(rule[1]),
			Action: NormalizeAction(rule[2]),
		})
	}
	return policies, nil
}

func (s *Service) assignableSubject(role string) (string, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if subject == roleAnchor {
		return "", ErrReservedRole
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	return subject, nil
}

func isRoleSubject(subject string) bool {
	return strings.HasPrefix(subject, rolePrefix) && subject != roleAnchor
}

func displayRole(subject string) string {
	return strings.TrimPrefix(subject, rolePrefix)
}

// NormalizeRole 令牌角色转为 casbin 主体，大小写不敏感
func NormalizeRole(role string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.TrimPrefix(normalized, rolePrefix)
	if normalized == "" {
		return "", fmt.Errorf("role is required")
	}
	return rolePrefix + normalized, nil
}

// NormalizeObject 去掉 /api/v1 前缀，保证策略与路由模板一致
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction HTTP 方法统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
