package admin

import (
	"github.com/cellar-market/internal/authz"
	"github.com/cellar-market/internal/constants"
	"github.com/cellar-market/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzMe 获取当前运维账号的权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	operator := c.GetString(constants.CtxKeyOperator)
	if operator == "" {
		respondError(c, response.CodeUnauthorized, "operator is required", nil)
		return
	}

	roles, err := h.AuthzService.GetOperatorRoles(operator)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load operator roles", err)
		return
	}
	policies := make([]authz.Policy, 0)
	for _, role := range roles {
		rolePolicies, roleErr := h.AuthzService.GetRolePolicies(role)
		if roleErr != nil {
			respondError(c, response.CodeInternal, "failed to load role policies", roleErr)
			return
		}
		policies = append(policies, rolePolicies...)
	}

	response.Success(c, gin.H{
		"operator": operator,
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list roles", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := c.Param("role")
	if _, err := authz.NormalizeRole(role); err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load role policies", err)
		return
	}
	response.Success(c, policies)
}
