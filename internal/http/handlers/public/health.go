package public

import (
	"github.com/ecofinds/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Message(c, tr(c, "message.api_running"))
}
