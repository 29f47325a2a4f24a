package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithGrantedPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("auditor", "/settlements/vendor-commissions/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("Auditor", "/api/v1/settlements/vendor-commissions/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("auditor", "/api/v1/settlements/vendor-commissions/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	if _, err := svc.EnforceRole("  ", "/settlements/statistics", "GET"); err == nil {
		t.Fatalf("expected empty role error")
	}
}

func TestRevokeAndDeleteRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("auditor", "/settlements/statistics", "GET"); err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("auditor", "/settlements/fee-policies", "GET"); err != nil {
		t.Fatalf("grant policy failed: %v", err)
	}
	if err := svc.RevokeRolePolicy("auditor", "/settlements/statistics", "GET"); err != nil {
		t.Fatalf("revoke policy failed: %v", err)
	}

	policies, err := svc.GetRolePolicies("auditor")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/settlements/fee-policies" || policies[0].Role != "auditor" {
		t.Fatalf("policies want [/settlements/fee-policies], got=%v", policies)
	}

	if err := svc.DeleteRole("auditor"); err != nil {
		t.Fatalf("delete role failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	for _, role := range roles {
		if role.Role == "auditor" {
			t.Fatalf("deleted role still listed: %v", roles)
		}
	}
	allow, err := svc.EnforceRole("auditor", "/settlements/fee-policies", "GET")
	if err != nil {
		t.Fatalf("enforce deleted role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected deleted role denied")
	}
}

func TestDeleteBuiltinRoleRejected(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	for _, role := range []string{"admin", "Finance", "role:store_owner"} {
		if err := svc.DeleteRole(role); !errors.Is(err, ErrImmutableRole) {
			t.Fatalf("delete %s want ErrImmutableRole got %v", role, err)
		}
	}
	if err := svc.DeleteRole("__anchor__"); !errors.Is(err, ErrReservedRole) {
		t.Fatalf("delete anchor want ErrReservedRole got %v", err)
	}
	if IsImmutableRole("auditor") {
		t.Fatalf("custom role should not be immutable")
	}
	allow, err := svc.EnforceRole("admin", "/api/v1/settlements/statistics", "GET")
	if err != nil || !allow {
		t.Fatalf("admin should keep access after rejected delete, allow=%v err=%v", allow, err)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/settlements/vendor-commissions/:id", want: "/settlements/vendor-commissions/:id"},
		{in: "/store-hub/channels", want: "/store-hub/channels"},
		{in: "settlements/statistics", want: "/settlements/statistics"},
		{in: "/api/v1", want: "/"},
		{in: "/api/v1beta/x", want: "/api/v1beta/x"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles again failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		RoleAdmin:      true,
		RoleFinance:    true,
		RoleOperator:   true,
		RoleStoreOwner: true,
	}
	for _, role := range roles {
		if !role.Builtin {
			t.Fatalf("role %s should be builtin", role.Role)
		}
		if role.Role == RoleAdmin && strings.Join(role.Inherits, ",") != "finance,store_owner" {
			t.Fatalf("admin inherits mismatch: %v", role.Inherits)
		}
		delete(wantRoles, role.Role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{role: RoleOperator, object: "/api/v1/settlements/statistics", action: "GET", want: true},
		{role: RoleOperator, object: "/api/v1/settlements/fee-policies/3/toggle", action: "PATCH", want: true},
		{role: RoleOperator, object: "/api/v1/settlements/period-close", action: "POST", want: false},
		{role: RoleFinance, object: "/api/v1/settlements/vendor-commissions/7/approve", action: "POST", want: true},
		{role: RoleFinance, object: "/api/v1/settlements/period-close", action: "POST", want: true},
		{role: RoleFinance, object: "/api/v1/settlements/vendor-commissions", action: "GET", want: true},
		{role: RoleFinance, object: "/api/v1/store-hub/overview", action: "GET", want: false},
		{role: RoleStoreOwner, object: "/api/v1/store-hub/channels", action: "POST", want: true},
		{role: RoleStoreOwner, object: "/api/v1/settlements/calculate-fee", action: "POST", want: true},
		{role: RoleStoreOwner, object: "/api/v1/settlements/statistics", action: "GET", want: false},
		{role: RoleAdmin, object: "/api/v1/settlements/supplier-settlements/1/pay", action: "POST", want: true},
		{role: RoleAdmin, object: "/api/v1/store-hub/live-signals", action: "GET", want: true},
	}
	for _, item := range cases {
		allow, err := svc.EnforceRole(item.role, item.object, item.action)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", item.role, item.action, item.object, err)
		}
		if allow != item.want {
			t.Fatalf("enforce %s %s %s want %v got %v", item.role, item.action, item.object, item.want, allow)
		}
	}
}

func TestNilServiceUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.EnforceRole("admin", "/settlements/statistics", "GET"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("enforce want ErrUnavailable got %v", err)
	}
	if _, err := svc.ListRoles(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("list roles want ErrUnavailable got %v", err)
	}
}
