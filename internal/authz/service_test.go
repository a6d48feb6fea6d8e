package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/constants"

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

func TestBuiltinRolesGuardAdminRoutes(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles: %v", err)
	}
	err := svc.SyncOperators([]config.OperatorConfig{
		{Name: "curator", Roles: []string{constants.RoleCatalogAdmin}},
		{Name: "reader", Roles: []string{constants.RoleAuditor}},
		{Name: " "},
	})
	if err != nil {
		t.Fatalf("sync operators: %v", err)
	}

	cases := []struct {
		operator, path, method string
		allow                  bool
	}{
		{"curator", "/api/v1/admin/catalog/reload", "post", true},
		{"curator", "/api/v1/admin/cart-events", "GET", true},
		{"reader", "/api/v1/admin/cart-events", "GET", true},
		{"reader", "/api/v1/admin/catalog/reload", "POST", false},
		{"stranger", "/api/v1/admin/cart-events", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceOperator(tc.operator, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s: %v", tc.operator, tc.path, err)
		}
		if allow != tc.allow {
			t.Fatalf("enforce %s %s %s = %v, want %v", tc.operator, tc.method, tc.path, allow, tc.allow)
		}
	}
}

func TestSetOperatorRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetOperatorRoles("ops", []string{"a", "b"}); err != nil {
		t.Fatalf("set roles: %v", err)
	}
	if err := svc.SetOperatorRoles("ops", []string{"b"}); err != nil {
		t.Fatalf("override roles: %v", err)
	}
	roles, err := svc.GetOperatorRoles("ops")
	if err != nil {
		t.Fatalf("get roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:b" {
		t.Fatalf("unexpected roles: %v", roles)
	}
	all, _ := svc.ListRoles()
	if len(all) != 2 {
		t.Fatalf("expected roles a and b to exist, got %v", all)
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("api/v1/admin/x"); got != "/admin/x" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeObject("/api/v1/admin/x"); got != "/admin/x" {
		t.Fatalf("unexpected object: %s", got)
	}
	if got := NormalizeObject("/api/v1"); got != "/" {
		t.Fatalf("unexpected root object: %s", got)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("empty role should fail")
	}
	if got, _ := NormalizeRole("catalog admin"); got != "role:catalog_admin" {
		t.Fatalf("unexpected role: %s", got)
	}
}
