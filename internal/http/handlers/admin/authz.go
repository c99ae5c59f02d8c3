package admin

import (
	"github.com/ecofinds/internal/authz"
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzSetAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

type authzRoleView struct {
	Role     string         `json:"role"`
	Policies []authz.Policy `json:"policies"`
}

// ListAuthzRoles 获取角色及其策略
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondMapped(c, err)
		return
	}
	views := make([]authzRoleView, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondMapped(c, err)
			return
		}
		views = append(views, authzRoleView{Role: role, Policies: policies})
	}
	response.Success(c, gin.H{"roles": views})
}

// ListAuthzAdmins 获取管理员及其角色
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondMapped(c, err)
		return
	}
	items := make([]gin.H, 0, len(admins))
	for _, admin := range admins {
		roles, err := h.AuthzService.GetAdminRoles(admin.ID)
		if err != nil {
			respondMapped(c, err)
			return
		}
		items = append(items, gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
			"roles":    roles,
		})
	}
	response.Success(c, gin.H{"admins": items})
}

// GetAdminRoles 获取管理员角色
func (h *Handler) GetAdminRoles(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.admin_not_found")
	if !ok {
		return
	}
	if _, err := h.AuthService.GetAdmin(id); err != nil {
		respondMapped(c, err, authzErrorRules)
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"admin_id": id,
		"roles":    roles,
	})
}

// SetAdminRoles 覆盖设置管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.admin_not_found")
	if !ok {
		return
	}
	var req authzSetAdminRolesPayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if _, err := h.AuthService.GetAdmin(id); err != nil {
		respondMapped(c, err, authzErrorRules)
		return
	}
	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondMapped(c, err, authzErrorRules)
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondMapped(c, err)
		return
	}
	requestLog(c).Infow("admin_roles_updated",
		"operator_id", operatorID,
		"admin_id", id,
		"roles", roles,
	)
	response.Success(c, gin.H{
		"admin_id": id,
		"roles":    roles,
	})
}
