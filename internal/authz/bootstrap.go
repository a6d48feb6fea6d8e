package authz

import (
	"fmt"
	"strings"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/constants"
	"github.com/cellar-market/internal/logger"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色：auditor 只读，catalog_admin 额外可重载目录
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleCatalogAdmin,
			Inherits: []string{constants.RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/catalog/*", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}

// SyncOperators 以配置为准覆盖运维账号的角色绑定
func (s *Service) SyncOperators(operators []config.OperatorConfig) error {
	for _, op := range operators {
		name := strings.TrimSpace(op.Name)
		if name == "" {
			logger.Warnw("authz_operator_skip_empty_name")
			continue
		}
		if err := s.SetOperatorRoles(name, op.Roles); err != nil {
			return fmt.Errorf("sync operator %s: %w", name, err)
		}
		logger.Infow("authz_operator_synced", "operator", name, "roles", op.Roles)
	}
	return nil
}
