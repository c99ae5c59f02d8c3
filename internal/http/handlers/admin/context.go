package admin

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "admin_id")
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondMapped(c *gin.Context, err error, rules ...[]handlershared.ErrorRule) {
	handlershared.RespondMappedError(c, err, rules...)
}
