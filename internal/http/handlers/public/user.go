package public

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料修改请求，未传字段不修改
type UpdateProfileRequest struct {
	Username     *string `json:"username" binding:"omitempty,min=3,max=30"`
	Bio          *string `json:"bio" binding:"omitempty,max=500"`
	Location     *string `json:"location" binding:"omitempty,max=100"`
	ProfileImage *string `json:"profile_image" binding:"omitempty,max=500"`
}

// GetUserProfile 获取用户公开资料
func (h *Handler) GetUserProfile(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserService.GetPublicProfile(id)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateProfile 修改当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	user, err := h.UserService.UpdateProfile(userID, service.UpdateProfileInput{
		Username:     req.Username,
		Bio:          req.Bio,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondMapped(c, err, authErrorRules)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// DeleteAccount 注销当前账号
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondMapped(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("user_account_deleted", "user_id", userID)
	response.Message(c, tr(c, "message.account_deleted"))
}
