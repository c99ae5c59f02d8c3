package admin

import (
	"strings"

	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateUserStatusRequest 用户状态修改请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePageQuery(c)
	users, total, err := h.UserService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"users":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"pages":     handlershared.TotalPages(total, pageSize),
	})
}

// UpdateUserStatus 启用或禁用用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	user, err := h.UserService.UpdateUserStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondMapped(c, err)
		return
	}
	requestLog(c).Infow("admin_user_status_updated",
		"admin_id", adminID,
		"user_id", id,
		"status", user.Status,
	)
	response.Success(c, gin.H{"user": user})
}
