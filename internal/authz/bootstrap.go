package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// 内置角色名称，与令牌中的 role 声明一致
const (
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleOperator   = "operator"
	RoleStoreOwner = "store_owner"
)

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleOperator,
			Policies: []Policy{
				{Object: "/settlements/*", Action: "GET"},
				{Object: "/settlements/calculate-fee", Action: "POST"},
				{Object: "/settlements/fee-policies", Action: "*"},
				{Object: "/settlements/fee-policies/:id", Action: "*"},
				{Object: "/settlements/fee-policies/:id/toggle", Action: "PATCH"},
			},
			Immutable: true,
		},
		{
			Role:     RoleFinance,
			Inherits: []string{RoleOperator},
			Policies: []Policy{
				{Object: "/settlements/vendor-commissions/*", Action: "POST"},
				{Object: "/settlements/supplier-settlements/*", Action: "POST"},
				{Object: "/settlements/period-close", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role: RoleStoreOwner,
			Policies: []Policy{
				{Object: "/store-hub/*", Action: "*"},
				{Object: "/settlements/calculate-fee", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     RoleAdmin,
			Inherits: []string{RoleFinance, RoleStoreOwner},
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// IsImmutableRole 判断角色是否为不可删除的内置角色
func IsImmutableRole(role string) bool {
	subject, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if seedSubject, _ := NormalizeRole(seed.Role); seed.Immutable && seedSubject == subject {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 写入内置角色、继承关系与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		if _, err := s.EnsureRole(seed.Role); err != nil {
			return fmt.Errorf("create builtin role %s failed: %w", seed.Role, err)
		}
		subject, _ := NormalizeRole(seed.Role)
		for _, parent := range seed.Inherits {
			parentSubject, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, parentSubject); err != nil {
				return fmt.Errorf("link role %s -> %s failed: %w", seed.Role, parent, err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.updatePolicy(seed.Role, policy.Object, policy.Action, true); err != nil {
				return fmt.Errorf("add builtin policy for %s failed: %w", seed.Role, err)
			}
		}
	}
	return nil
}
