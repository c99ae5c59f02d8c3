package admin

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类写入请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

// GetAdminCategories 获取全部分类
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListAll()
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count":      len(categories),
		"categories": categories,
	})
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondMapped(c, err, categoryErrorRules)
		return
	}
	response.Created(c, gin.H{"category": category})
}

// UpdateCategory 修改分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	var req CategoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondMapped(c, err, categoryErrorRules)
		return
	}
	response.Success(c, gin.H{"category": category})
}

// DeleteCategory 删除分类，仍被商品引用时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(c.Request.Context(), id); err != nil {
		respondMapped(c, err, categoryErrorRules)
		return
	}
	response.Message(c, handlershared.T(c, "message.category_deleted"))
}
